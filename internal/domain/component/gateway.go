package component

import (
	"context"
	"io"

	"github.com/shopspring/decimal"
)

// ListFilter narrows a component listing.
type ListFilter struct {
	Search   string
	Kind     Kind
	Page     int
	PageSize int
}

// Gateway is the vendor platform port for component records. The single
// implementation talks to the vendor's GraphQL Admin API; tests inject
// fakes.
type Gateway interface {
	// ExistsByCode reports whether any component of any kind already
	// holds the code. The code must be normalized by the caller.
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// FindByCode finds the component holding the code, any kind.
	FindByCode(ctx context.Context, code string) (*Component, error)

	// Get fetches a component by its vendor ID.
	Get(ctx context.Context, id string) (*Component, error)

	// List pages through components matching the filter.
	List(ctx context.Context, filter ListFilter) ([]Component, int, error)

	// Create creates the record on the vendor platform and returns it
	// with its assigned ID.
	Create(ctx context.Context, c *Component) (*Component, error)

	// Update rewrites name, description and status.
	Update(ctx context.Context, c *Component) (*Component, error)

	// UpdateCode rewrites the code (primary variant SKU).
	UpdateCode(ctx context.Context, id, code string) error

	// SetMetafields writes the given metafields. Never called with an
	// empty slice.
	SetMetafields(ctx context.Context, id string, fields []Metafield) error

	// DeleteMetafield removes one metafield by key.
	DeleteMetafield(ctx context.Context, id, key string) error

	// SetPrice sets the unit price on the primary variant.
	SetPrice(ctx context.Context, id string, price decimal.Decimal) error

	// ApplyPriceBands materializes bands into per-band variants with
	// computed prices. Never called with an empty slice.
	ApplyPriceBands(ctx context.Context, id string, bands []PriceBand) error
}

// FileGateway is the vendor platform port for staged file uploads.
type FileGateway interface {
	// StageUpload reserves an upload target for the file.
	StageUpload(ctx context.Context, filename, mimeType string, size int64) (*StagedTarget, error)

	// StreamUpload sends the file bytes to the staged target.
	StreamUpload(ctx context.Context, target *StagedTarget, filename string, r io.Reader, size int64) error

	// CreateFile registers the staged resource as a vendor file.
	CreateFile(ctx context.Context, resourceURL, filename, alt string) (*FileReference, error)

	// AttachFile links a created file to a component.
	AttachFile(ctx context.Context, fileID, componentID string) error

	// ListFiles lists vendor files, newest first.
	ListFiles(ctx context.Context, query string) ([]FileReference, error)

	// DeleteFile removes a vendor file.
	DeleteFile(ctx context.Context, fileID string) error

	// FileUsage lists components whose artwork metafields reference the
	// file.
	FileUsage(ctx context.Context, fileID string) ([]FileUsage, error)
}
