package component

import (
	"strings"
	"time"

	"github.com/componentadmin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Kind classifies a component record. All kinds share one code namespace.
type Kind string

const (
	KindMixedProduct    Kind = "mixed_product"
	KindFinishedProduct Kind = "finished_product"
	KindBaseProduct     Kind = "base_product"
	KindIngredient      Kind = "ingredient"
	KindSubIngredient   Kind = "sub_ingredient"
)

// Kinds lists every valid component kind.
var Kinds = []Kind{
	KindMixedProduct,
	KindFinishedProduct,
	KindBaseProduct,
	KindIngredient,
	KindSubIngredient,
}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindMixedProduct, KindFinishedProduct, KindBaseProduct, KindIngredient, KindSubIngredient:
		return true
	}
	return false
}

// Label returns the human-readable form used on the vendor platform
// (e.g. "Mixed Product").
func (k Kind) Label() string {
	words := strings.Split(string(k), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// KindFromLabel parses the vendor-side label back into a Kind.
func KindFromLabel(label string) (Kind, bool) {
	k := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_"))
	if k.IsValid() {
		return k, true
	}
	return "", false
}

// Status represents the publication status of a component
type Status string

const (
	StatusActive Status = "active"
	StatusDraft  Status = "draft"
)

// Component is an administrative view of a product record held on the
// vendor platform. The backend keeps no copy of record state; a Component
// value is always derived from a vendor response.
type Component struct {
	ID          string
	Name        string
	Kind        Kind
	Code        string
	Description string
	Status      Status
	Price       *decimal.Decimal
	PriceBands  []PriceBand
	Metafields  []Metafield
	Files       []FileReference
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewComponent validates the required fields and builds a Component ready
// to be created on the vendor platform. The code keeps the caller's casing
// after trimming; uniqueness checks use NormalizeCode.
func NewComponent(name string, kind Kind, code string) (*Component, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Component name is required")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown component kind: "+string(kind))
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Component code is required")
	}
	if len(code) > 64 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Component code cannot exceed 64 characters")
	}

	return &Component{
		Name:   name,
		Kind:   kind,
		Code:   code,
		Status: StatusActive,
	}, nil
}

// NormalizeCode maps a raw code to its canonical form for uniqueness
// comparison: surrounding whitespace stripped, upper-cased. Vendor SKU
// search is case-insensitive, so "abc-1" and "ABC-1" occupy the same slot.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CodesEqual reports whether two raw codes collide under the
// normalization policy.
func CodesEqual(a, b string) bool {
	return NormalizeCode(a) == NormalizeCode(b)
}

// SetPrice sets the unit price. Prices are quantized to two decimal
// places before being sent to the vendor.
func (c *Component) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Price cannot be negative")
	}
	rounded := price.Round(2)
	c.Price = &rounded
	return nil
}

// Rename changes the code after validation. The caller is responsible for
// re-running the namespace uniqueness check.
func (c *Component) Rename(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_INPUT", "Component code is required")
	}
	if len(code) > 64 {
		return shared.NewDomainError("INVALID_INPUT", "Component code cannot exceed 64 characters")
	}
	c.Code = code
	return nil
}
