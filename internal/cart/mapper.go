package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type cartDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id"`
	Items      []itemDocument     `bson:"items"`
	TotalPrice float64            `bson:"total_price"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

type itemDocument struct {
	ProductID string `bson:"product_id"`
	Quantity  int    `bson:"quantity"`
}

func toDocumentItems(items []Item) []itemDocument {
	docs := make([]itemDocument, 0, len(items))
	for _, it := range items {
		docs = append(docs, itemDocument{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return docs
}

// toDomain carries the stored total as last saved. The service re-prices
// the cart from the catalogue before returning it.
func toDomain(doc cartDocument) *Cart {
	items := make([]Item, 0, len(doc.Items))
	for _, d := range doc.Items {
		items = append(items, Item{ProductID: d.ProductID, Quantity: d.Quantity})
	}

	c := &Cart{
		UserID:     doc.UserID,
		Items:      items,
		TotalPrice: decimal.NewFromFloat(doc.TotalPrice),
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
	if !doc.ID.IsZero() {
		c.ID = doc.ID.Hex()
	}
	return c
}
