package cart

import (
	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
)

// PriceLookup returns the current unit price of a product, or false when
// the product does not resolve.
type PriceLookup func(productID string) (decimal.Decimal, bool)

// ComputeTotal sums quantity × current price over items. Lines whose
// product does not resolve contribute nothing.
func ComputeTotal(items []Item, lookup PriceLookup) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		price, ok := lookup(it.ProductID)
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// CatalogPrices adapts a resolved product set to a PriceLookup.
func CatalogPrices(products map[string]product.Product) PriceLookup {
	return func(id string) (decimal.Decimal, bool) {
		p, ok := products[id]
		if !ok {
			return decimal.Zero, false
		}
		return p.Price, true
	}
}
