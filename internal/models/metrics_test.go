package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMetrics(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
		want Metrics
	}{
		{
			"typed integers",
			map[string]interface{}{"sales": 3, "watches": 7, "impressions": 120, "views": 45},
			Metrics{Sales: 3, Watches: 7, Impressions: 120, Views: 45},
		},
		{
			"json float64 numbers",
			map[string]interface{}{"sales": float64(3), "watches": float64(7)},
			Metrics{Sales: 3, Watches: 7},
		},
		{
			"string counters from legacy sources",
			map[string]interface{}{"sales": "12", "views": "301"},
			Metrics{Sales: 12, Views: 301},
		},
		{
			"source-specific aliases",
			map[string]interface{}{"quantity_sold": 4, "watch_count": 2, "hit_count": 88},
			Metrics{Sales: 4, Watches: 2, Views: 88},
		},
		{
			"missing fields default to zero",
			map[string]interface{}{},
			Metrics{},
		},
		{
			"nil map",
			nil,
			Metrics{},
		},
		{
			"negative values clamp to zero",
			map[string]interface{}{"sales": -3, "watches": float64(-1)},
			Metrics{},
		},
		{
			"garbage values default to zero",
			map[string]interface{}{"sales": "n/a", "watches": true, "views": ""},
			Metrics{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMetrics(tt.raw))
		})
	}
}

func TestDefaultSupplierSignalsEnabled(t *testing.T) {
	for _, s := range DefaultSupplierSignals() {
		assert.True(t, s.Enabled, s.Pattern)
		assert.NotEmpty(t, s.SupplierName, s.Pattern)
	}
}

func TestDefaultFormatSpecsCoverSupportedTools(t *testing.T) {
	specs := DefaultFormatSpecs()

	names := make(map[string]bool, len(specs))
	for _, s := range specs {
		names[s.Name] = true
		assert.NotEmpty(t, s.Columns, s.Name)
	}
	for _, want := range []string{
		"autods", "yaballe", "ebay_file_exchange",
		"wholesale2b", "shopify_matrixify", "shopify_tagging",
	} {
		assert.True(t, names[want], "missing format spec %s", want)
	}
}
