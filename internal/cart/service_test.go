package cart

import (
	"context"
	"errors"
	"testing"

	"storefront-be/internal/apperror"
	"storefront-be/internal/auth"
	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByUserID(ctx context.Context, userID string) (*Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Cart), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, c *Cart) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// fakeCatalog resolves ids against an in-memory product set.
type fakeCatalog struct {
	products map[string]product.Product
	err      error
}

func (f *fakeCatalog) Lookup(_ context.Context, ids []string) (map[string]product.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]product.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]product.Product{
		"p1": {ID: "p1", Name: "Mouse", Price: decimal.NewFromInt(10), CountInStock: 10},
		"p2": {ID: "p2", Name: "Pad", Price: decimal.RequireFromString("4.5"), CountInStock: 3},
		"p0": {ID: "p0", Name: "Sold out", Price: decimal.NewFromInt(99), CountInStock: 0},
	}}
}

var (
	ctx   = context.Background()
	buyer = auth.Principal{UserID: "u-1", Role: auth.RoleUser}
)

func quantities(c *Cart) map[string]int {
	out := map[string]int{}
	for _, it := range c.Items {
		out[it.ProductID] = it.Quantity
	}
	return out
}

// --- Tests ---

func TestService_Get(t *testing.T) {
	t.Run("No cart", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(nil, ErrCartNotFound)

		c, err := NewService(repo, newCatalog()).Get(ctx, buyer)
		assert.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("Total follows current price", func(t *testing.T) {
		catalog := newCatalog()
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(&Cart{UserID: "u-1", Items: []Item{{ProductID: "p1", Quantity: 2}}}, nil).Once()
		repo.On("GetByUserID", ctx, "u-1").Return(&Cart{UserID: "u-1", Items: []Item{{ProductID: "p1", Quantity: 2}}}, nil).Once()
		svc := NewService(repo, catalog)

		c, err := svc.Get(ctx, buyer)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(20).Equal(c.TotalPrice))
		assert.Equal(t, "Mouse", c.Items[0].Product.Name)

		p := catalog.products["p1"]
		p.Price = decimal.NewFromInt(15)
		catalog.products["p1"] = p

		c, err = svc.Get(ctx, buyer)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(30).Equal(c.TotalPrice))
	})
}

func TestService_AddItem(t *testing.T) {
	t.Run("Creates cart on first add", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(nil, ErrCartNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)

		c, err := NewService(repo, newCatalog()).AddItem(ctx, buyer, "p1", 2)
		require.NoError(t, err)
		assert.Equal(t, "u-1", c.UserID)
		assert.Equal(t, map[string]int{"p1": 2}, quantities(c))
		assert.True(t, decimal.NewFromInt(20).Equal(c.TotalPrice))
		repo.AssertExpectations(t)
	})

	t.Run("Increments existing line", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(&Cart{UserID: "u-1", Items: []Item{{ProductID: "p1", Quantity: 2}}}, nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		c, err := NewService(repo, newCatalog()).AddItem(ctx, buyer, "p1", 3)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"p1": 5}, quantities(c))
	})

	t.Run("Out of stock never creates a cart", func(t *testing.T) {
		repo := new(MockRepository)

		c, err := NewService(repo, newCatalog()).AddItem(ctx, buyer, "p0", 1)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, ErrProductUnavailable)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		repo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Unknown product", func(t *testing.T) {
		repo := new(MockRepository)
		_, err := NewService(repo, newCatalog()).AddItem(ctx, buyer, "nope", 1)
		assert.ErrorIs(t, err, ErrProductUnavailable)
	})

	t.Run("Stock ceiling", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(&Cart{UserID: "u-1", Items: []Item{{ProductID: "p2", Quantity: 2}}}, nil)

		_, err := NewService(repo, newCatalog()).AddItem(ctx, buyer, "p2", 2)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Invalid quantity", func(t *testing.T) {
		_, err := NewService(new(MockRepository), newCatalog()).AddItem(ctx, buyer, "p1", 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestService_UpdateItem(t *testing.T) {
	existing := func() *Cart {
		return &Cart{UserID: "u-1", Items: []Item{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}}}
	}

	t.Run("Zero removes the line", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(existing(), nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		c, err := NewService(repo, newCatalog()).UpdateItem(ctx, buyer, "p1", 0)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"p2": 1}, quantities(c))
		assert.True(t, decimal.RequireFromString("4.5").Equal(c.TotalPrice))
	})

	t.Run("Positive sets exactly", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(existing(), nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		c, err := NewService(repo, newCatalog()).UpdateItem(ctx, buyer, "p1", 5)
		require.NoError(t, err)
		assert.Equal(t, 5, quantities(c)["p1"])
		assert.True(t, decimal.RequireFromString("54.5").Equal(c.TotalPrice))
	})

	t.Run("Above stock", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(existing(), nil)

		_, err := NewService(repo, newCatalog()).UpdateItem(ctx, buyer, "p2", 4)
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("No cart", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(nil, ErrCartNotFound)

		_, err := NewService(repo, newCatalog()).UpdateItem(ctx, buyer, "p1", 1)
		assert.ErrorIs(t, err, ErrCartNotFound)
	})

	t.Run("No line", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(existing(), nil)

		_, err := NewService(repo, newCatalog()).UpdateItem(ctx, buyer, "p9", 1)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestService_RemoveAndClear(t *testing.T) {
	t.Run("Remove without cart is a no-op", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(nil, ErrCartNotFound)

		c, err := NewService(repo, newCatalog()).RemoveItem(ctx, buyer, "p1")
		assert.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("Remove filters the line", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(&Cart{UserID: "u-1", Items: []Item{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}}}, nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		c, err := NewService(repo, newCatalog()).RemoveItem(ctx, buyer, "p2")
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"p1": 2}, quantities(c))
	})

	t.Run("Clear zeroes the total", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(&Cart{UserID: "u-1", Items: []Item{{ProductID: "p1", Quantity: 2}}}, nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		c, err := NewService(repo, newCatalog()).Clear(ctx, buyer)
		require.NoError(t, err)
		assert.Empty(t, c.Items)
		assert.True(t, c.TotalPrice.IsZero())
	})

	t.Run("Clear without cart", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(nil, ErrCartNotFound)

		c, err := NewService(repo, newCatalog()).Clear(ctx, buyer)
		assert.NoError(t, err)
		assert.Nil(t, c)
	})
}

func TestService_Merge(t *testing.T) {
	t.Run("Adds into existing cart", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(&Cart{UserID: "u-1", Items: []Item{{ProductID: "p1", Quantity: 2}}}, nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		cachedPrice := decimal.NewFromInt(1)
		c, err := NewService(repo, newCatalog()).Merge(ctx, buyer, []LocalItem{
			{Product: "p1", Quantity: 3, Price: &cachedPrice},
			{Product: "p2", Quantity: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2"}, []string{c.Items[0].ProductID, c.Items[1].ProductID})
		assert.Equal(t, map[string]int{"p1": 5, "p2": 1}, quantities(c))
		// 5 × 10 + 1 × 4.5, cached local price ignored
		assert.True(t, decimal.RequireFromString("54.5").Equal(c.TotalPrice))
	})

	t.Run("Empty list leaves lines and total unchanged", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(&Cart{UserID: "u-1", Items: []Item{{ProductID: "p1", Quantity: 2}}}, nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		c, err := NewService(repo, newCatalog()).Merge(ctx, buyer, []LocalItem{})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"p1": 2}, quantities(c))
		assert.True(t, decimal.NewFromInt(20).Equal(c.TotalPrice))
	})

	t.Run("Creates cart and tolerates unknown products", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(nil, ErrCartNotFound)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		c, err := NewService(repo, newCatalog()).Merge(ctx, buyer, []LocalItem{
			{Product: "ghost", Quantity: 4},
			{Product: "p2", Quantity: 2},
		})
		require.NoError(t, err)
		assert.Len(t, c.Items, 2)
		assert.Nil(t, c.Items[0].Product)
		assert.True(t, decimal.NewFromInt(9).Equal(c.TotalPrice))
	})

	t.Run("No stock ceiling", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(nil, ErrCartNotFound)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		c, err := NewService(repo, newCatalog()).Merge(ctx, buyer, []LocalItem{{Product: "p2", Quantity: 50}})
		require.NoError(t, err)
		assert.Equal(t, 50, c.Items[0].Quantity)
	})

	t.Run("Invalid entry", func(t *testing.T) {
		_, err := NewService(new(MockRepository), newCatalog()).Merge(ctx, buyer, []LocalItem{{Product: "p1"}})
		assert.ErrorIs(t, err, ErrInvalidLocalItem)
	})

	t.Run("Save failure", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByUserID", ctx, "u-1").Return(nil, ErrCartNotFound)
		repo.On("Save", ctx, mock.Anything).Return(errors.New("mongo down"))

		_, err := NewService(repo, newCatalog()).Merge(ctx, buyer, []LocalItem{{Product: "p1", Quantity: 1}})
		assert.EqualError(t, err, "mongo down")
	})
}

func TestService_Delete(t *testing.T) {
	repo := new(MockRepository)
	repo.On("DeleteByUserID", ctx, "u-1").Return(nil)

	assert.NoError(t, NewService(repo, newCatalog()).Delete(ctx, "u-1"))
	repo.AssertExpectations(t)
}
