package cart

import "storefront-be/internal/utils"

// validateLocal rejects entries without a product id or with a
// non-positive quantity.
func validateLocal(local []LocalItem) error {
	for _, li := range local {
		if utils.CanonicalID(li.Product) == "" || li.Quantity < 1 {
			return ErrInvalidLocalItem
		}
	}
	return nil
}

// MergeItems folds local entries into server lines additively: a product
// already on the server gains the local quantity, anything else is
// appended in local order. Local ids are canonicalized first, so the same
// product written in another uuid form lands on the same line. Duplicate
// local entries accumulate. The server slice is not modified.
func MergeItems(server []Item, local []LocalItem) []Item {
	merged := make([]Item, len(server), len(server)+len(local))
	copy(merged, server)

	index := make(map[string]int, len(merged))
	for i, it := range merged {
		index[it.ProductID] = i
	}

	for _, li := range local {
		li.Product = utils.CanonicalID(li.Product)
		if i, ok := index[li.Product]; ok {
			merged[i].Quantity += li.Quantity
			continue
		}
		index[li.Product] = len(merged)
		merged = append(merged, toItem(li))
	}
	return merged
}

func toItem(li LocalItem) Item {
	return Item{ProductID: li.Product, Quantity: li.Quantity}
}
