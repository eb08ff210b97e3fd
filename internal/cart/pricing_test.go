package cart

import (
	"testing"

	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	catalog := map[string]product.Product{
		"p1": {ID: "p1", Price: decimal.RequireFromString("10.50")},
		"p2": {ID: "p2", Price: decimal.RequireFromString("3")},
	}

	tests := []struct {
		name  string
		items []Item
		want  string
	}{
		{"Empty", nil, "0"},
		{"Single line", []Item{{ProductID: "p1", Quantity: 2}}, "21"},
		{"Mixed", []Item{{ProductID: "p1", Quantity: 5}, {ProductID: "p2", Quantity: 1}}, "55.5"},
		{"Unresolved contributes nothing", []Item{{ProductID: "gone", Quantity: 9}, {ProductID: "p2", Quantity: 2}}, "6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotal(tt.items, CatalogPrices(catalog))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestComputeTotal_UsesCurrentPrice(t *testing.T) {
	items := []Item{{ProductID: "p1", Quantity: 3}}

	before := ComputeTotal(items, CatalogPrices(map[string]product.Product{"p1": {Price: decimal.NewFromInt(10)}}))
	after := ComputeTotal(items, CatalogPrices(map[string]product.Product{"p1": {Price: decimal.NewFromInt(12)}}))

	assert.True(t, decimal.NewFromInt(30).Equal(before))
	assert.True(t, decimal.NewFromInt(36).Equal(after))
}
