package cart

import (
	"time"

	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
)

// Cart is a user's server-side cart. TotalPrice is derived from the
// current price of every resolved line.
type Cart struct {
	ID         string          `json:"_id"`
	UserID     string          `json:"user"`
	Items      []Item          `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Item is one server line. Product is filled in when the reference
// resolves and stays nil for products that no longer exist.
type Item struct {
	ProductID string           `json:"productId"`
	Quantity  int              `json:"quantity"`
	Product   *product.Product `json:"product"`
}

// LocalItem is an entry of an anonymous client-side cart. Name and Price
// are the client's cached copies and never feed a total.
type LocalItem struct {
	Product  string           `json:"product"`
	Quantity int              `json:"quantity"`
	Name     string           `json:"name,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

func (c *Cart) find(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) productIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}
