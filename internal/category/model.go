package category

import "time"

type Category struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Image         string    `json:"image"`
	ProductsCount int64     `json:"productsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Input struct {
	Title *string `json:"title"`
	Image *string `json:"image"`
}

const (
	minTitleLen = 3
	maxTitleLen = 32
)
