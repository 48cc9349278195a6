package component

import (
	"context"

	"github.com/componentadmin/backend/internal/domain/component"
	"github.com/componentadmin/backend/internal/domain/shared"
	"github.com/componentadmin/backend/internal/infrastructure/telemetry"
)

// CodeIndex is a best-effort cache of the code namespace. A positive hit
// short-circuits the uniqueness pre-check; a miss or an error falls
// through to the vendor query, which stays authoritative.
type CodeIndex interface {
	Contains(ctx context.Context, code string) (bool, error)
	Add(ctx context.Context, code string) error
	Remove(ctx context.Context, code string) error
}

// Service handles component-related business operations against the
// vendor platform.
type Service struct {
	gateway component.Gateway
	codes   CodeIndex
}

// NewService creates a new component Service
func NewService(gateway component.Gateway, codes CodeIndex) *Service {
	return &Service{
		gateway: gateway,
		codes:   codes,
	}
}

// Create creates a new component on the vendor platform. The code must be
// unused across every component kind; the check runs before any create
// call so a duplicate never reaches the vendor.
func (s *Service) Create(ctx context.Context, req CreateComponentRequest) (*ComponentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "component", "create")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrComponentCode, req.Code,
		telemetry.SpanAttrComponentKind, req.Kind,
	)

	c, err := component.NewComponent(req.Name, component.Kind(req.Kind), req.Code)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if req.Description != "" {
		c.Description = req.Description
	}
	if req.Status != "" {
		c.Status = component.Status(req.Status)
	}
	if req.Price != nil {
		if err := c.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	for key, value := range req.Metafields {
		c.Metafields = append(c.Metafields, component.NewTextMetafield(key, value))
	}
	for key, items := range req.ListFields {
		c.Metafields = append(c.Metafields, component.NewListMetafield(key, items))
	}

	normalized := component.NormalizeCode(c.Code)

	// Fast path: a cached hit is already a duplicate.
	if s.codes != nil {
		if hit, err := s.codes.Contains(ctx, normalized); err == nil && hit {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Component with this code already exists")
		}
	}

	exists, err := s.gateway.ExistsByCode(ctx, normalized)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if exists {
		err := shared.NewDomainError("ALREADY_EXISTS", "Component with this code already exists")
		telemetry.RecordError(span, err)
		return nil, err
	}

	created, err := s.gateway.Create(ctx, c)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.codes != nil {
		_ = s.codes.Add(ctx, normalized)
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrComponentID, created.ID)
	return toComponentResponse(created), nil
}

// Get fetches a component by its vendor ID
func (s *Service) Get(ctx context.Context, id string) (*ComponentResponse, error) {
	c, err := s.gateway.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toComponentResponse(c), nil
}

// GetByCode fetches the component holding the code, any kind
func (s *Service) GetByCode(ctx context.Context, code string) (*ComponentResponse, error) {
	c, err := s.gateway.FindByCode(ctx, component.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	return toComponentResponse(c), nil
}

// List pages through components matching the filter
func (s *Service) List(ctx context.Context, filter ComponentListFilter) (*ComponentListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}

	items, total, err := s.gateway.List(ctx, component.ListFilter{
		Search:   filter.Search,
		Kind:     component.Kind(filter.Kind),
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
	if err != nil {
		return nil, err
	}

	resp := &ComponentListResponse{
		Items:    make([]ComponentResponse, 0, len(items)),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	for i := range items {
		resp.Items = append(resp.Items, *toComponentResponse(&items[i]))
	}
	return resp, nil
}

// Update rewrites a component's basic information
func (s *Service) Update(ctx context.Context, id string, req UpdateComponentRequest) (*ComponentResponse, error) {
	c, err := s.gateway.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Status != nil {
		c.Status = component.Status(*req.Status)
	}

	updated, err := s.gateway.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	return toComponentResponse(updated), nil
}

// UpdateCode changes a component's code. The new code runs through the
// same namespace-wide uniqueness check as Create, excluding the component
// itself.
func (s *Service) UpdateCode(ctx context.Context, id string, req UpdateCodeRequest) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "component", "update_code")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrComponentID, id,
		telemetry.SpanAttrComponentCode, req.Code,
	)

	c, err := s.gateway.Get(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	oldCode := component.NormalizeCode(c.Code)
	if err := c.Rename(req.Code); err != nil {
		return err
	}
	newCode := component.NormalizeCode(c.Code)

	if newCode != oldCode {
		exists, err := s.gateway.ExistsByCode(ctx, newCode)
		if err != nil {
			telemetry.RecordError(span, err)
			return err
		}
		if exists {
			err := shared.NewDomainError("ALREADY_EXISTS", "Component with this code already exists")
			telemetry.RecordError(span, err)
			return err
		}
	}

	if err := s.gateway.UpdateCode(ctx, id, c.Code); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if s.codes != nil {
		_ = s.codes.Remove(ctx, oldCode)
		_ = s.codes.Add(ctx, newCode)
	}
	return nil
}

// UpdateMetafields writes the given metafield values. An empty request is
// a successful no-op; no vendor call is made.
func (s *Service) UpdateMetafields(ctx context.Context, id string, req UpdateMetafieldsRequest) error {
	fields := make([]component.Metafield, 0, len(req.Fields)+len(req.ListFields))
	for key, value := range req.Fields {
		fields = append(fields, component.NewTextMetafield(key, value))
	}
	for key, items := range req.ListFields {
		fields = append(fields, component.NewListMetafield(key, items))
	}
	if len(fields) == 0 {
		return nil
	}
	return s.gateway.SetMetafields(ctx, id, fields)
}

// DeleteMetafield removes one metafield by key
func (s *Service) DeleteMetafield(ctx context.Context, id, key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_INPUT", "Metafield key is required")
	}
	return s.gateway.DeleteMetafield(ctx, id, key)
}

// UpdatePrice sets the unit price on the component's primary variant
func (s *Service) UpdatePrice(ctx context.Context, id string, req UpdatePriceRequest) error {
	if req.Price.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Price cannot be negative")
	}
	return s.gateway.SetPrice(ctx, id, req.Price.Round(2))
}

// UpdatePriceBands replaces the component's tiered price list, stored as
// a JSON metafield.
func (s *Service) UpdatePriceBands(ctx context.Context, id string, req UpdatePriceBandsRequest) error {
	if len(req.Bands) == 0 {
		return nil
	}

	key := req.Key
	if key == "" {
		key = "pricejsontr"
	}

	bands := make([]component.PriceBand, len(req.Bands))
	for i, b := range req.Bands {
		bands[i] = component.PriceBand{Min: b.Min, Max: b.Max, Price: b.Price}
	}

	field, err := component.BandsMetafield(key, bands)
	if err != nil {
		return err
	}
	return s.gateway.SetMetafields(ctx, id, []component.Metafield{field})
}

// ApplyPriceBands reads the stored band metafield and materializes it
// into per-band variants with computed prices on the vendor platform.
func (s *Service) ApplyPriceBands(ctx context.Context, id string, req ApplyPriceBandsRequest) (*ApplyPriceBandsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "component", "apply_price_bands")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrComponentID, id)

	key := req.Key
	if key == "" {
		key = "pricejsontr"
	}

	c, err := s.gateway.Get(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var raw string
	for _, f := range c.Metafields {
		if f.Key == key {
			raw = f.Value
			break
		}
	}
	if raw == "" || raw == component.BlankValue {
		return nil, shared.NewDomainError("NOT_FOUND", "Component has no stored price bands under "+key)
	}

	bands, err := component.ParseBands(raw)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(bands) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Stored price band list is empty")
	}

	if err := s.gateway.ApplyPriceBands(ctx, id, bands); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &ApplyPriceBandsResponse{Key: key, Applied: len(bands)}, nil
}
