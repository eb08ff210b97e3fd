package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "carts"

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	DeleteByUserID(ctx context.Context, userID string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		collection: db.Collection(collectionName),
		now:        time.Now,
	}
}

func (m *mongoRepository) GetByUserID(ctx context.Context, userID string) (*Cart, error) {
	var doc cartDocument
	err := m.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return toDomain(doc), nil
}

// Save upserts the cart keyed by user, replacing its lines and stored total.
func (m *mongoRepository) Save(ctx context.Context, c *Cart) error {
	now := m.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	total, _ := c.TotalPrice.Float64()
	update := bson.M{
		"$set": bson.M{
			"items":       toDocumentItems(c.Items),
			"total_price": total,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"created_at": c.CreatedAt,
		},
	}

	res, err := m.collection.UpdateOne(ctx,
		bson.M{"user_id": c.UserID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		c.ID = id.Hex()
	}
	return nil
}

// DeleteByUserID removes the user's cart. A missing cart is not an error.
func (m *mongoRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// EnsureIndexes makes user_id unique so a user owns at most one cart.
func (m *mongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("carts_user_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}
	return nil
}
