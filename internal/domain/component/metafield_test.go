package component

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextMetafield(t *testing.T) {
	t.Run("keeps non-empty value", func(t *testing.T) {
		m := NewTextMetafield("sku", "VB-001")
		assert.Equal(t, "sku", m.Key)
		assert.Equal(t, MetafieldTypeText, m.Type)
		assert.Equal(t, "VB-001", m.Value)
	})

	t.Run("substitutes placeholder for blank value", func(t *testing.T) {
		m := NewTextMetafield("subcategory", "   ")
		assert.Equal(t, BlankValue, m.Value)
	})
}

func TestNewListMetafield(t *testing.T) {
	t.Run("encodes items as JSON array", func(t *testing.T) {
		m := NewListMetafield("ingredients", []string{"VB-001", " VB-002 "})
		assert.Equal(t, MetafieldTypeList, m.Type)
		assert.JSONEq(t, `["VB-001","VB-002"]`, m.Value)
	})

	t.Run("collapses empty list to placeholder entry", func(t *testing.T) {
		m := NewListMetafield("ingredients", nil)
		assert.JSONEq(t, `["-"]`, m.Value)
	})
}

func TestValidateBands(t *testing.T) {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	t.Run("accepts ordered non-overlapping bands", func(t *testing.T) {
		bands := []PriceBand{
			{Min: 100, Max: 250, Price: price("1.20")},
			{Min: 300, Max: 500, Price: price("1.10")},
		}
		assert.NoError(t, ValidateBands(bands))
	})

	t.Run("rejects inverted band", func(t *testing.T) {
		err := ValidateBands([]PriceBand{{Min: 500, Max: 100, Price: price("1")}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "minimum cannot exceed")
	})

	t.Run("rejects overlapping bands", func(t *testing.T) {
		bands := []PriceBand{
			{Min: 100, Max: 300, Price: price("1.20")},
			{Min: 250, Max: 500, Price: price("1.10")},
		}
		require.Error(t, ValidateBands(bands))
	})

	t.Run("rejects negative price", func(t *testing.T) {
		require.Error(t, ValidateBands([]PriceBand{{Min: 0, Max: 10, Price: price("-0.5")}}))
	})
}

func TestBandsMetafield(t *testing.T) {
	bands := []PriceBand{
		{Min: 100, Max: 250, Price: decimal.RequireFromString("1.2")},
		{Min: 300, Max: 500, Price: decimal.RequireFromString("1.125")},
	}
	m, err := BandsMetafield("pricejsontr", bands)
	require.NoError(t, err)
	assert.Equal(t, MetafieldTypeJSON, m.Type)
	assert.JSONEq(t, `[{"min":100,"max":250,"price":"1.20"},{"min":300,"max":500,"price":"1.13"}]`, m.Value)
}

func TestPriceBandLabel(t *testing.T) {
	b := PriceBand{Min: 25, Max: 49, Price: decimal.RequireFromString("1.20")}
	assert.Equal(t, "25-49", b.Label())
}

func TestParseBands(t *testing.T) {
	t.Run("decodes string prices", func(t *testing.T) {
		bands, err := ParseBands(`[{"min":100,"max":250,"price":"1.20"},{"min":300,"max":500,"price":"1.10"}]`)
		require.NoError(t, err)
		require.Len(t, bands, 2)
		assert.Equal(t, 100, bands[0].Min)
		assert.True(t, bands[0].Price.Equal(decimal.RequireFromString("1.20")))
	})

	t.Run("decodes numeric prices", func(t *testing.T) {
		bands, err := ParseBands(`[{"min":1,"max":24,"price":2.5}]`)
		require.NoError(t, err)
		require.Len(t, bands, 1)
		assert.True(t, bands[0].Price.Equal(decimal.RequireFromString("2.5")))
	})

	t.Run("round-trips BandsMetafield output", func(t *testing.T) {
		in := []PriceBand{
			{Min: 100, Max: 250, Price: decimal.RequireFromString("1.20")},
			{Min: 300, Max: 500, Price: decimal.RequireFromString("1.10")},
		}
		m, err := BandsMetafield("pricejsontr", in)
		require.NoError(t, err)

		out, err := ParseBands(m.Value)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.True(t, out[1].Price.Equal(in[1].Price))
	})

	t.Run("rejects non-list JSON", func(t *testing.T) {
		_, err := ParseBands(`{"min":1}`)
		require.Error(t, err)
	})

	t.Run("rejects unparseable prices", func(t *testing.T) {
		_, err := ParseBands(`[{"min":1,"max":24,"price":"a lot"}]`)
		require.Error(t, err)
	})

	t.Run("rejects overlapping stored bands", func(t *testing.T) {
		_, err := ParseBands(`[{"min":100,"max":300,"price":"1.20"},{"min":250,"max":500,"price":"1.10"}]`)
		require.Error(t, err)
	})
}
