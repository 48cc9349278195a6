package shopify

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/componentadmin/backend/internal/domain/component"
	"github.com/componentadmin/backend/internal/domain/shared"
)

// statusToVendor maps a component status onto the Admin API enum
func statusToVendor(s component.Status) string {
	if s == component.StatusDraft {
		return "DRAFT"
	}
	return "ACTIVE"
}

func statusFromVendor(s string) component.Status {
	if strings.EqualFold(s, "DRAFT") {
		return component.StatusDraft
	}
	return component.StatusActive
}

// searchValue quotes a search term for the Admin API query syntax
func searchValue(v string) string {
	if strings.ContainsAny(v, ` "`) {
		v = strings.ReplaceAll(v, `"`, `\"`)
		return fmt.Sprintf(`"%s"`, v)
	}
	return v
}

// toComponent maps a vendor product node to the domain view
func toComponent(node *productNode) *component.Component {
	c := &component.Component{
		ID:          node.ID,
		Name:        node.Title,
		Description: node.DescriptionHTML,
		Status:      statusFromVendor(node.Status),
		CreatedAt:   node.CreatedAt,
		UpdatedAt:   node.UpdatedAt,
	}
	if kind, ok := component.KindFromLabel(node.ProductType); ok {
		c.Kind = kind
	}
	if len(node.Variants.Nodes) > 0 {
		v := node.Variants.Nodes[0]
		c.Code = v.SKU
		if v.Price != "" {
			if price, err := decimal.NewFromString(v.Price); err == nil {
				c.Price = &price
			}
		}
	}
	for _, m := range node.Metafields.Nodes {
		c.Metafields = append(c.Metafields, component.Metafield{
			Key:   m.Key,
			Type:  m.Type,
			Value: m.Value,
		})
	}
	return c
}

// ExistsByCode searches the primary variant SKUs of every product kind
func (c *Client) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, productID, err := c.findVariantBySKU(ctx, code)
	if err != nil {
		return false, err
	}
	return productID != "", nil
}

// FindByCode finds the component holding the code, any kind
func (c *Client) FindByCode(ctx context.Context, code string) (*component.Component, error) {
	_, productID, err := c.findVariantBySKU(ctx, code)
	if err != nil {
		return nil, err
	}
	if productID == "" {
		return nil, shared.ErrNotFound
	}
	return c.Get(ctx, productID)
}

// findVariantBySKU returns the variant and product IDs owning the SKU.
// The sku: filter is case-insensitive, which is exactly the namespace
// collision rule the admin UI relies on.
func (c *Client) findVariantBySKU(ctx context.Context, sku string) (variantID, productID string, err error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return "", "", nil
	}

	query := `
query variantBySku($query: String!) {
	productVariants(first: 1, query: $query) {
		nodes {
			id
			sku
			product { id }
		}
	}
}`

	var data variantSearchData
	err = c.graphql(ctx, query, map[string]any{
		"query": "sku:" + searchValue(sku),
	}, &data)
	if err != nil {
		return "", "", err
	}

	for _, node := range data.ProductVariants.Nodes {
		if component.CodesEqual(node.SKU, sku) {
			return node.ID, node.Product.ID, nil
		}
	}
	return "", "", nil
}

// Get fetches a component by its vendor ID
func (c *Client) Get(ctx context.Context, id string) (*component.Component, error) {
	query := fmt.Sprintf(`
query product($id: ID!) {
	product(id: $id) {%s}
}`, productFields)

	var data productData
	if err := c.graphql(ctx, query, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, shared.ErrNotFound
	}
	return toComponent(data.Product), nil
}

// List pages through components matching the filter. The Admin API uses
// cursor pagination; page numbers are flattened by walking cursors up to
// the requested page.
func (c *Client) List(ctx context.Context, filter component.ListFilter) ([]component.Component, int, error) {
	var terms []string
	if filter.Kind != "" {
		terms = append(terms, "product_type:"+searchValue(filter.Kind.Label()))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		terms = append(terms, searchValue(s))
	}
	searchQuery := strings.Join(terms, " AND ")

	total, err := c.countProducts(ctx, searchQuery)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
query products($first: Int!, $after: String, $query: String) {
	products(first: $first, after: $after, query: $query, sortKey: TITLE) {
		nodes {%s}
		pageInfo { hasNextPage endCursor }
	}
}`, productFields)

	type pagedProductsData struct {
		Products struct {
			Nodes    []productNode `json:"nodes"`
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
		} `json:"products"`
	}

	var cursor string
	for page := 1; ; page++ {
		vars := map[string]any{"first": filter.PageSize}
		if searchQuery != "" {
			vars["query"] = searchQuery
		}
		if cursor != "" {
			vars["after"] = cursor
		}

		var data pagedProductsData
		if err := c.graphql(ctx, query, vars, &data); err != nil {
			return nil, 0, err
		}

		if page == filter.Page {
			out := make([]component.Component, 0, len(data.Products.Nodes))
			for i := range data.Products.Nodes {
				out = append(out, *toComponent(&data.Products.Nodes[i]))
			}
			return out, total, nil
		}
		if !data.Products.PageInfo.HasNextPage {
			return nil, total, nil
		}
		cursor = data.Products.PageInfo.EndCursor
	}
}

func (c *Client) countProducts(ctx context.Context, searchQuery string) (int, error) {
	query := `
query productsCount($query: String) {
	productsCount(query: $query) { count }
}`
	vars := map[string]any{}
	if searchQuery != "" {
		vars["query"] = searchQuery
	}
	var data productsCountData
	if err := c.graphql(ctx, query, vars, &data); err != nil {
		return 0, err
	}
	return data.ProductsCount.Count, nil
}

// Create creates the product record, sets the code on its primary
// variant and writes any initial metafields. The vendor's own duplicate
// rejection stays authoritative if a concurrent create slips past the
// pre-check.
func (c *Client) Create(ctx context.Context, in *component.Component) (*component.Component, error) {
	input := map[string]any{
		"title":       in.Name,
		"productType": in.Kind.Label(),
		"status":      statusToVendor(in.Status),
	}
	if in.Description != "" {
		input["descriptionHtml"] = in.Description
	}

	query := fmt.Sprintf(`
mutation productCreate($input: ProductInput!) {
	productCreate(input: $input) {
		product {%s}
		userErrors { field message }
	}
}`, productFields)

	var data productCreateData
	if err := c.graphql(ctx, query, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	if err := userErrorsToError("productCreate", data.ProductCreate.UserErrors); err != nil {
		return nil, err
	}
	if data.ProductCreate.Product == nil || data.ProductCreate.Product.ID == "" {
		return nil, shared.NewDomainError("VENDOR_ERROR", "productCreate returned no product")
	}

	node := data.ProductCreate.Product
	if len(node.Variants.Nodes) == 0 {
		return nil, shared.NewDomainError("VENDOR_ERROR", "created product has no variants")
	}

	variant := map[string]any{
		"id":            node.Variants.Nodes[0].ID,
		"inventoryItem": map[string]any{"sku": in.Code},
	}
	if in.Price != nil {
		variant["price"] = in.Price.StringFixed(2)
	}
	if err := c.bulkUpdateVariant(ctx, node.ID, variant); err != nil {
		return nil, err
	}

	if len(in.Metafields) > 0 {
		if err := c.SetMetafields(ctx, node.ID, in.Metafields); err != nil {
			return nil, err
		}
	}

	created := toComponent(node)
	created.Code = in.Code
	created.Kind = in.Kind
	created.Price = in.Price
	created.Metafields = in.Metafields
	return created, nil
}

// Update rewrites name, description and status
func (c *Client) Update(ctx context.Context, in *component.Component) (*component.Component, error) {
	input := map[string]any{
		"id":              in.ID,
		"title":           in.Name,
		"descriptionHtml": in.Description,
		"status":          statusToVendor(in.Status),
	}

	query := fmt.Sprintf(`
mutation productUpdate($input: ProductInput!) {
	productUpdate(input: $input) {
		product {%s}
		userErrors { field message }
	}
}`, productFields)

	var data productUpdateData
	if err := c.graphql(ctx, query, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	if err := userErrorsToError("productUpdate", data.ProductUpdate.UserErrors); err != nil {
		return nil, err
	}
	if data.ProductUpdate.Product == nil {
		return nil, shared.ErrNotFound
	}
	return toComponent(data.ProductUpdate.Product), nil
}

// UpdateCode rewrites the primary variant SKU
func (c *Client) UpdateCode(ctx context.Context, id, code string) error {
	variantID, err := c.getPrimaryVariantID(ctx, id)
	if err != nil {
		return err
	}
	return c.bulkUpdateVariant(ctx, id, map[string]any{
		"id":            variantID,
		"inventoryItem": map[string]any{"sku": code},
	})
}

// SetPrice sets the price on the primary variant
func (c *Client) SetPrice(ctx context.Context, id string, price decimal.Decimal) error {
	variantID, err := c.getPrimaryVariantID(ctx, id)
	if err != nil {
		return err
	}
	return c.bulkUpdateVariant(ctx, id, map[string]any{
		"id":    variantID,
		"price": price.StringFixed(2),
	})
}

func (c *Client) getPrimaryVariantID(ctx context.Context, productID string) (string, error) {
	id, _, err := c.getPrimaryVariant(ctx, productID)
	return id, err
}

func (c *Client) getPrimaryVariant(ctx context.Context, productID string) (variantID, sku string, err error) {
	query := `
query primaryVariant($id: ID!) {
	product(id: $id) {
		id
		variants(first: 1) { nodes { id sku price } }
	}
}`
	var data productData
	if err := c.graphql(ctx, query, map[string]any{"id": productID}, &data); err != nil {
		return "", "", err
	}
	if data.Product == nil {
		return "", "", shared.ErrNotFound
	}
	if len(data.Product.Variants.Nodes) == 0 {
		return "", "", shared.NewDomainError("VENDOR_ERROR", "product has no variants")
	}
	node := data.Product.Variants.Nodes[0]
	return node.ID, node.SKU, nil
}

// ApplyPriceBands materializes bands into the product's variant list.
// A single band keeps the default variant and just rewrites its price.
// Multiple bands are declared through productSet, which reconciles the
// Quantity option and the per-band variants in one mutation; variants
// for dropped bands disappear with it. Every band variant carries the
// component code so SKU lookups keep resolving the product.
func (c *Client) ApplyPriceBands(ctx context.Context, id string, bands []component.PriceBand) error {
	variantID, sku, err := c.getPrimaryVariant(ctx, id)
	if err != nil {
		return err
	}

	if len(bands) == 1 {
		return c.bulkUpdateVariant(ctx, id, map[string]any{
			"id":    variantID,
			"price": bands[0].Price.Round(2).StringFixed(2),
		})
	}

	values := make([]map[string]any, len(bands))
	variants := make([]map[string]any, len(bands))
	for i, b := range bands {
		label := b.Label()
		values[i] = map[string]any{"name": label}
		variants[i] = map[string]any{
			"optionValues": []map[string]any{{"optionName": "Quantity", "name": label}},
			"price":        b.Price.Round(2).StringFixed(2),
			"sku":          sku,
		}
	}

	query := `
mutation productSet($input: ProductSetInput!) {
	productSet(input: $input) {
		product { id }
		userErrors { field message }
	}
}`
	var data productSetData
	err = c.graphql(ctx, query, map[string]any{
		"input": map[string]any{
			"id":             id,
			"productOptions": []map[string]any{{"name": "Quantity", "values": values}},
			"variants":       variants,
		},
	}, &data)
	if err != nil {
		return err
	}
	return userErrorsToError("productSet", data.ProductSet.UserErrors)
}

func (c *Client) bulkUpdateVariant(ctx context.Context, productID string, variant map[string]any) error {
	query := `
mutation productVariantsBulkUpdate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
	productVariantsBulkUpdate(productId: $productId, variants: $variants) {
		productVariants { id }
		userErrors { field message }
	}
}`
	var data variantsBulkUpdateData
	err := c.graphql(ctx, query, map[string]any{
		"productId": productID,
		"variants":  []map[string]any{variant},
	}, &data)
	if err != nil {
		return err
	}
	return userErrorsToError("productVariantsBulkUpdate", data.ProductVariantsBulkUpdate.UserErrors)
}

// SetMetafields writes metafields under the custom namespace
func (c *Client) SetMetafields(ctx context.Context, id string, fields []component.Metafield) error {
	inputs := make([]map[string]any, len(fields))
	for i, f := range fields {
		inputs[i] = map[string]any{
			"ownerId":   id,
			"namespace": component.MetafieldNamespace,
			"key":       f.Key,
			"type":      f.Type,
			"value":     f.Value,
		}
	}

	query := `
mutation metafieldsSet($metafields: [MetafieldsSetInput!]!) {
	metafieldsSet(metafields: $metafields) {
		metafields { key }
		userErrors { field message }
	}
}`
	var data metafieldsSetData
	if err := c.graphql(ctx, query, map[string]any{"metafields": inputs}, &data); err != nil {
		return err
	}
	return userErrorsToError("metafieldsSet", data.MetafieldsSet.UserErrors)
}

// DeleteMetafield removes one metafield by key
func (c *Client) DeleteMetafield(ctx context.Context, id, key string) error {
	query := `
mutation metafieldsDelete($metafields: [MetafieldIdentifierInput!]!) {
	metafieldsDelete(metafields: $metafields) {
		deletedMetafields { ownerId key }
		userErrors { field message }
	}
}`
	var data metafieldsDeleteData
	err := c.graphql(ctx, query, map[string]any{
		"metafields": []map[string]any{{
			"ownerId":   id,
			"namespace": component.MetafieldNamespace,
			"key":       key,
		}},
	}, &data)
	if err != nil {
		return err
	}
	return userErrorsToError("metafieldsDelete", data.MetafieldsDelete.UserErrors)
}
