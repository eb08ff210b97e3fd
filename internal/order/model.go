package order

import (
	"time"

	"storefront-be/internal/utils"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              string          `json:"_id"`
	User            Customer        `json:"user"`
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      decimal.Decimal `json:"itemsPrice"`
	TaxPrice        decimal.Decimal `json:"taxPrice"`
	ShippingPrice   decimal.Decimal `json:"shippingPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Customer is the owning user as embedded in order responses.
type Customer struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// OrderItem is a line frozen at placement time. ProductID is kept for
// display and stock bookkeeping only.
type OrderItem struct {
	ID        string          `json:"_id,omitempty"`
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// Placeholders recorded when an order is marked paid without gateway data.
const (
	ManualPaymentID     = "Admin_Manual_Payment"
	ManualPaymentStatus = "COMPLETED"
	ManualPaymentEmail  = "Admin@System"
)

// withManualDefaults fills every empty field with the manual-payment
// placeholder. An empty update time becomes now.
func (p PaymentResult) withManualDefaults(now time.Time) PaymentResult {
	if p.ID == "" {
		p.ID = ManualPaymentID
	}
	if p.Status == "" {
		p.Status = ManualPaymentStatus
	}
	if p.UpdateTime == "" {
		p.UpdateTime = now.UTC().Format(time.RFC3339)
	}
	if p.EmailAddress == "" {
		p.EmailAddress = ManualPaymentEmail
	}
	return p
}

// PlaceInput is the checkout payload. Prices are stored as supplied.
type PlaceInput struct {
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      decimal.Decimal `json:"itemsPrice"`
	TaxPrice        decimal.Decimal `json:"taxPrice"`
	ShippingPrice   decimal.Decimal `json:"shippingPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt"`
	PaymentResult   *PaymentResult  `json:"paymentResult"`
}

type ListOptions struct {
	Search      string
	IsPaid      *bool
	IsDelivered *bool
	utils.Pagination
	Sort utils.Sort
}

var SortColumns = map[string]string{
	"createdAt":  "o.created_at",
	"totalPrice": "o.total_price",
}

var DefaultSort = utils.Sort{Column: "o.created_at", Desc: true}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalSales    decimal.Decimal `json:"totalSales"`
	TotalOrders   int64           `json:"totalOrders"`
	TotalProducts int64           `json:"totalProducts"`
	TotalUsers    int64           `json:"totalUsers"`
	SalesChart    []DailySales    `json:"salesChart"`
}

type DailySales struct {
	Day   string          `json:"_id"`
	Sales decimal.Decimal `json:"sales"`
}

// RangeDays maps a dashboard range key to its length in days. Unknown
// keys mean the last week.
func RangeDays(key string) int {
	switch key {
	case "30days":
		return 30
	case "1year":
		return 365
	default:
		return 7
	}
}
