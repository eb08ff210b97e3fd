package product

import (
	"time"

	"storefront-be/internal/utils"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           string          `json:"_id"`
	UserID       *string         `json:"user,omitempty"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Description  string          `json:"description"`
	Brand        string          `json:"brand"`
	CategoryID   *string         `json:"category"`
	Price        decimal.Decimal `json:"price"`
	CountInStock int             `json:"countInStock"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// InStock reports whether at least one unit can be sold.
func (p Product) InStock() bool {
	return p.CountInStock > 0
}

// Input is the create/update payload. Nil fields are left unchanged on update.
type Input struct {
	Name         *string          `json:"name"`
	Image        *string          `json:"image"`
	Description  *string          `json:"description"`
	Brand        *string          `json:"brand"`
	Category     *string          `json:"category"`
	Price        *decimal.Decimal `json:"price"`
	CountInStock *int             `json:"countInStock"`
}

type ListOptions struct {
	Search     string
	CategoryID string
	utils.Pagination
	Sort utils.Sort
}

var SortColumns = map[string]string{
	"createdAt":    "created_at",
	"price":        "price",
	"name":         "name",
	"countInStock": "count_in_stock",
}

var DefaultSort = utils.Sort{Column: "created_at", Desc: true}
