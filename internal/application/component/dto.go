package component

import (
	"time"

	"github.com/componentadmin/backend/internal/domain/component"
	"github.com/shopspring/decimal"
)

// CreateComponentRequest represents a request to create a new component
type CreateComponentRequest struct {
	Code        string              `json:"code" binding:"required,component_code"`
	Name        string              `json:"name" binding:"required,min=1,max=255"`
	Kind        string              `json:"kind" binding:"required,component_kind"`
	Description string              `json:"description" binding:"max=5000"`
	Status      string              `json:"status" binding:"omitempty,oneof=active draft"`
	Price       *decimal.Decimal    `json:"price"`
	Metafields  map[string]string   `json:"metafields"`
	ListFields  map[string][]string `json:"list_fields"`
}

// UpdateComponentRequest represents a request to update a component's
// basic information. Nil fields are left untouched.
type UpdateComponentRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Status      *string `json:"status" binding:"omitempty,oneof=active draft"`
}

// UpdateCodeRequest represents a request to change a component's code
type UpdateCodeRequest struct {
	Code string `json:"code" binding:"required,component_code"`
}

// UpdateMetafieldsRequest carries metafield values keyed by metafield key.
// Scalar values go in Fields, multi-valued ones in ListFields.
type UpdateMetafieldsRequest struct {
	Fields     map[string]string   `json:"fields"`
	ListFields map[string][]string `json:"list_fields"`
}

// UpdatePriceRequest represents a request to set the unit price
type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

// UpdatePriceBandsRequest replaces the tiered price list
type UpdatePriceBandsRequest struct {
	Key   string           `json:"key" binding:"omitempty,oneof=pricejsontr pricejsoner"`
	Bands []PriceBandInput `json:"bands" binding:"required,dive"`
}

// PriceBandInput is one quantity bracket in an update request
type PriceBandInput struct {
	Min   int             `json:"min" binding:"min=0"`
	Max   int             `json:"max" binding:"min=0"`
	Price decimal.Decimal `json:"price"`
}

// ApplyPriceBandsRequest selects which stored band metafield to
// materialize into variants
type ApplyPriceBandsRequest struct {
	Key string `json:"key" binding:"omitempty,oneof=pricejsontr pricejsoner"`
}

// ApplyPriceBandsResponse reports what was materialized
type ApplyPriceBandsResponse struct {
	Key     string `json:"key"`
	Applied int    `json:"applied"`
}

// ComponentResponse represents a component in API responses
type ComponentResponse struct {
	ID          string                `json:"id"`
	Code        string                `json:"code"`
	Name        string                `json:"name"`
	Kind        string                `json:"kind"`
	Description string                `json:"description"`
	Status      string                `json:"status"`
	Price       *decimal.Decimal      `json:"price,omitempty"`
	Metafields  []component.Metafield `json:"metafields,omitempty"`
	Files       []FileResponse        `json:"files,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// FileResponse represents an attached file in API responses
type FileResponse struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// ComponentListFilter represents filter options for component listing
type ComponentListFilter struct {
	Search   string `form:"search"`
	Kind     string `form:"kind" binding:"omitempty,component_kind"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// ComponentListResponse wraps a page of components
type ComponentListResponse struct {
	Items    []ComponentResponse `json:"items"`
	Total    int                 `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}

func toComponentResponse(c *component.Component) *ComponentResponse {
	resp := &ComponentResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Kind:        string(c.Kind),
		Description: c.Description,
		Status:      string(c.Status),
		Price:       c.Price,
		Metafields:  c.Metafields,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	for _, f := range c.Files {
		resp.Files = append(resp.Files, FileResponse{
			ID:        f.ID,
			Filename:  f.Filename,
			URL:       f.URL,
			MimeType:  f.MimeType,
			Size:      f.Size,
			CreatedAt: f.CreatedAt,
		})
	}
	return resp
}
