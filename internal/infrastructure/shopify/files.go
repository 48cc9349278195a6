package shopify

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/componentadmin/backend/internal/domain/component"
	"github.com/componentadmin/backend/internal/domain/shared"
)

// usageScanPageSize and usageScanMaxPages bound the metafield scan behind
// FileUsage. The Admin API cannot filter products by metafield value, so
// usage is resolved by walking the catalog.
const (
	usageScanPageSize = 100
	usageScanMaxPages = 20
)

// uploadTimeout covers one staged upload transfer. The regular client
// timeout is tuned for GraphQL calls and would cut large files short.
const uploadTimeout = 5 * time.Minute

// StageUpload reserves an upload target for the file
func (c *Client) StageUpload(ctx context.Context, filename, mimeType string, size int64) (*component.StagedTarget, error) {
	httpMethod := "POST"
	query := `
mutation stagedUploadsCreate($input: [StagedUploadInput!]!) {
	stagedUploadsCreate(input: $input) {
		stagedTargets {
			url
			resourceUrl
			parameters { name value }
		}
		userErrors { field message }
	}
}`

	var data stagedUploadsCreateData
	err := c.graphql(ctx, query, map[string]any{
		"input": []map[string]any{{
			"filename":   filename,
			"mimeType":   mimeType,
			"resource":   "FILE",
			"fileSize":   strconv.FormatInt(size, 10),
			"httpMethod": httpMethod,
		}},
	}, &data)
	if err != nil {
		return nil, err
	}
	if err := userErrorsToError("stagedUploadsCreate", data.StagedUploadsCreate.UserErrors); err != nil {
		return nil, err
	}
	if len(data.StagedUploadsCreate.StagedTargets) == 0 {
		return nil, shared.NewDomainError("UPLOAD_FAILED", "stagedUploadsCreate returned no targets")
	}

	raw := data.StagedUploadsCreate.StagedTargets[0]
	target := &component.StagedTarget{
		URL:         raw.URL,
		ResourceURL: raw.ResourceURL,
	}
	for _, p := range raw.Parameters {
		target.Parameters = append(target.Parameters, component.StagedParameter{Name: p.Name, Value: p.Value})
	}
	return target, nil
}

// StreamUpload sends the file bytes to the staged target. Targets with
// form parameters take a multipart POST; bare targets take a raw PUT.
func (c *Client) StreamUpload(ctx context.Context, target *component.StagedTarget, filename string, r io.Reader, size int64) error {
	if !c.cfg.Configured() {
		return shared.ErrNotConfigured
	}

	var req *http.Request
	var err error

	if len(target.Parameters) > 0 {
		pr, pw := io.Pipe()
		mw := multipart.NewWriter(pw)
		go func() {
			for _, p := range target.Parameters {
				if err := mw.WriteField(p.Name, p.Value); err != nil {
					pw.CloseWithError(err)
					return
				}
			}
			part, err := mw.CreateFormFile("file", filename)
			if err != nil {
				pw.CloseWithError(err)
				return
			}
			if _, err := io.Copy(part, r); err != nil {
				pw.CloseWithError(err)
				return
			}
			pw.CloseWithError(mw.Close())
		}()

		req, err = http.NewRequestWithContext(ctx, http.MethodPost, target.URL, pr)
		if err != nil {
			return fmt.Errorf("build staged upload request: %w", err)
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPut, target.URL, r)
		if err != nil {
			return fmt.Errorf("build staged upload request: %w", err)
		}
		req.ContentLength = size
		req.Header.Set("Content-Type", "application/octet-stream")
	}

	client := &http.Client{Timeout: uploadTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("staged upload transfer: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return shared.NewDomainError("UPLOAD_FAILED",
			fmt.Sprintf("staged upload rejected: %s: %s", resp.Status, strings.TrimSpace(string(raw))))
	}
	return nil
}

// CreateFile registers the staged resource as a vendor file
func (c *Client) CreateFile(ctx context.Context, resourceURL, filename, alt string) (*component.FileReference, error) {
	query := `
mutation fileCreate($files: [FileCreateInput!]!) {
	fileCreate(files: $files) {
		files {
			id
			alt
			createdAt
			... on GenericFile { url originalFileSize mimeType }
		}
		userErrors { field message }
	}
}`

	input := map[string]any{
		"originalSource": resourceURL,
		"contentType":    "FILE",
	}
	if alt != "" {
		input["alt"] = alt
	}

	var data fileCreateData
	if err := c.graphql(ctx, query, map[string]any{"files": []map[string]any{input}}, &data); err != nil {
		return nil, err
	}
	if err := userErrorsToError("fileCreate", data.FileCreate.UserErrors); err != nil {
		return nil, err
	}
	if len(data.FileCreate.Files) == 0 {
		return nil, shared.NewDomainError("UPLOAD_FAILED", "fileCreate returned no files")
	}

	node := data.FileCreate.Files[0]
	ref := &component.FileReference{
		ID:        node.ID,
		Filename:  filename,
		URL:       node.URL,
		MimeType:  node.MimeType,
		Size:      node.OriginalFileSize,
		CreatedAt: node.CreatedAt,
	}
	if ref.Filename == "" {
		ref.Filename = filenameFromURL(node.URL)
	}
	return ref, nil
}

// AttachFile links a created file to a component record
func (c *Client) AttachFile(ctx context.Context, fileID, componentID string) error {
	query := `
mutation fileUpdate($files: [FileUpdateInput!]!) {
	fileUpdate(files: $files) {
		files { id }
		userErrors { field message }
	}
}`
	var data fileUpdateData
	err := c.graphql(ctx, query, map[string]any{
		"files": []map[string]any{{
			"id":              fileID,
			"referencesToAdd": []string{componentID},
		}},
	}, &data)
	if err != nil {
		return err
	}
	return userErrorsToError("fileUpdate", data.FileUpdate.UserErrors)
}

// ListFiles lists vendor files, newest first
func (c *Client) ListFiles(ctx context.Context, searchQuery string) ([]component.FileReference, error) {
	query := `
query files($query: String) {
	files(first: 250, query: $query, sortKey: CREATED_AT, reverse: true) {
		nodes {
			id
			alt
			createdAt
			... on GenericFile { url originalFileSize mimeType }
		}
	}
}`
	vars := map[string]any{}
	if searchQuery = strings.TrimSpace(searchQuery); searchQuery != "" {
		vars["query"] = searchValue(searchQuery)
	}

	var data filesData
	if err := c.graphql(ctx, query, vars, &data); err != nil {
		return nil, err
	}

	out := make([]component.FileReference, 0, len(data.Files.Nodes))
	for _, node := range data.Files.Nodes {
		fileURL := node.URL
		if fileURL == "" && node.Preview != nil && node.Preview.Image != nil {
			fileURL = node.Preview.Image.URL
		}
		out = append(out, component.FileReference{
			ID:        node.ID,
			Filename:  filenameFromURL(fileURL),
			URL:       fileURL,
			MimeType:  node.MimeType,
			Size:      node.OriginalFileSize,
			CreatedAt: node.CreatedAt,
		})
	}
	return out, nil
}

// DeleteFile removes a vendor file
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	query := `
mutation fileDelete($fileIds: [ID!]!) {
	fileDelete(fileIds: $fileIds) {
		deletedFileIds
		userErrors { field message }
	}
}`
	var data fileDeleteData
	if err := c.graphql(ctx, query, map[string]any{"fileIds": []string{fileID}}, &data); err != nil {
		return err
	}
	return userErrorsToError("fileDelete", data.FileDelete.UserErrors)
}

// FileUsage scans product metafields for file_reference values pointing
// at the file.
func (c *Client) FileUsage(ctx context.Context, fileID string) ([]component.FileUsage, error) {
	query := `
query productsForUsage($first: Int!, $after: String) {
	products(first: $first, after: $after) {
		nodes {
			id
			title
			variants(first: 1) { nodes { sku } }
			metafields(first: 50, namespace: "custom") { nodes { key type value } }
		}
		pageInfo { hasNextPage endCursor }
	}
}`

	type usageScanData struct {
		Products struct {
			Nodes []struct {
				ID       string `json:"id"`
				Title    string `json:"title"`
				Variants struct {
					Nodes []struct {
						SKU string `json:"sku"`
					} `json:"nodes"`
				} `json:"variants"`
				Metafields struct {
					Nodes []metafieldNode `json:"nodes"`
				} `json:"metafields"`
			} `json:"nodes"`
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
		} `json:"products"`
	}

	var usages []component.FileUsage
	var cursor string
	for page := 0; page < usageScanMaxPages; page++ {
		vars := map[string]any{"first": usageScanPageSize}
		if cursor != "" {
			vars["after"] = cursor
		}

		var data usageScanData
		if err := c.graphql(ctx, query, vars, &data); err != nil {
			return nil, err
		}

		for _, node := range data.Products.Nodes {
			for _, m := range node.Metafields.Nodes {
				if m.Type != component.MetafieldTypeFile || m.Value != fileID {
					continue
				}
				usage := component.FileUsage{
					ComponentID:   node.ID,
					ComponentName: node.Title,
					MetafieldKey:  m.Key,
				}
				if len(node.Variants.Nodes) > 0 {
					usage.Code = node.Variants.Nodes[0].SKU
				}
				usages = append(usages, usage)
			}
		}

		if !data.Products.PageInfo.HasNextPage {
			break
		}
		cursor = data.Products.PageInfo.EndCursor
	}
	return usages, nil
}

// filenameFromURL extracts the basename of a file URL, without the
// signing query string.
func filenameFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return path.Base(raw)
	}
	return path.Base(u.Path)
}
