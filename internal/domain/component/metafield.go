package component

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/componentadmin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MetafieldNamespace is the vendor-side namespace all component
// metafields live under.
const MetafieldNamespace = "custom"

// Metafield is one custom attribute on a component. Value holds the
// vendor wire representation (lists are JSON-encoded arrays).
type Metafield struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Metafield value types as the vendor names them.
const (
	MetafieldTypeText   = "single_line_text_field"
	MetafieldTypeList   = "list.single_line_text_field"
	MetafieldTypeNumber = "number_decimal"
	MetafieldTypeJSON   = "json"
	MetafieldTypeFile   = "file_reference"
)

// BlankValue is stored in place of an empty scalar so cleared fields stay
// visible in the vendor admin instead of silently disappearing.
const BlankValue = "-"

// NewTextMetafield builds a scalar text metafield, substituting BlankValue
// for empty input.
func NewTextMetafield(key, value string) Metafield {
	value = strings.TrimSpace(value)
	if value == "" {
		value = BlankValue
	}
	return Metafield{Key: key, Type: MetafieldTypeText, Value: value}
}

// NewListMetafield builds a list metafield from items, JSON-encoding them
// the way the vendor expects. Empty lists collapse to a single BlankValue
// entry.
func NewListMetafield(key string, items []string) Metafield {
	cleaned := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			cleaned = append(cleaned, it)
		}
	}
	if len(cleaned) == 0 {
		cleaned = []string{BlankValue}
	}
	raw, _ := json.Marshal(cleaned)
	return Metafield{Key: key, Type: MetafieldTypeList, Value: string(raw)}
}

// PriceBand is one quantity bracket of a tiered price list. Bands are
// stored on the vendor platform as a JSON metafield.
type PriceBand struct {
	Min   int             `json:"min"`
	Max   int             `json:"max"`
	Price decimal.Decimal `json:"price"`
}

// Label returns the quantity bracket as shown on the vendor variant
// option, e.g. "25-49".
func (b PriceBand) Label() string {
	return strconv.Itoa(b.Min) + "-" + strconv.Itoa(b.Max)
}

// Validate checks a single band.
func (b PriceBand) Validate() error {
	if b.Min < 0 || b.Max < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Price band quantities cannot be negative")
	}
	if b.Min > b.Max {
		return shared.NewDomainError("INVALID_INPUT", "Price band minimum cannot exceed its maximum")
	}
	if b.Price.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Price band price cannot be negative")
	}
	return nil
}

// ValidateBands checks every band and that brackets do not overlap.
func ValidateBands(bands []PriceBand) error {
	for _, b := range bands {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Min <= bands[i-1].Max {
			return shared.NewDomainError("INVALID_INPUT", "Price bands must not overlap")
		}
	}
	return nil
}

// BandsMetafield serializes bands into the JSON metafield the vendor
// stores tiered pricing in.
func BandsMetafield(key string, bands []PriceBand) (Metafield, error) {
	if err := ValidateBands(bands); err != nil {
		return Metafield{}, err
	}
	type wireBand struct {
		Min   int    `json:"min"`
		Max   int    `json:"max"`
		Price string `json:"price"`
	}
	wire := make([]wireBand, len(bands))
	for i, b := range bands {
		wire[i] = wireBand{Min: b.Min, Max: b.Max, Price: b.Price.Round(2).StringFixed(2)}
	}
	raw, err := json.Marshal(wire)
	if err != nil {
		return Metafield{}, err
	}
	return Metafield{Key: key, Type: MetafieldTypeJSON, Value: string(raw)}, nil
}

// ParseBands decodes a stored band metafield value. Prices arrive as
// JSON strings or numbers depending on who wrote the metafield; both are
// accepted. The decoded bands are validated before being returned.
func ParseBands(raw string) ([]PriceBand, error) {
	type wireBand struct {
		Min   int             `json:"min"`
		Max   int             `json:"max"`
		Price json.RawMessage `json:"price"`
	}
	var wire []wireBand
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Price band metafield is not a JSON array of bands")
	}

	bands := make([]PriceBand, len(wire))
	for i, w := range wire {
		text := strings.Trim(string(w.Price), `"`)
		price, err := decimal.NewFromString(strings.TrimSpace(text))
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Price band price is not a valid number")
		}
		bands[i] = PriceBand{Min: w.Min, Max: w.Max, Price: price}
	}
	if err := ValidateBands(bands); err != nil {
		return nil, err
	}
	return bands, nil
}
