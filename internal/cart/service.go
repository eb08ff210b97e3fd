package cart

import (
	"context"
	"errors"

	"storefront-be/internal/auth"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/product"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

// ProductLookup resolves product ids to current catalogue data.
type ProductLookup interface {
	Lookup(ctx context.Context, ids []string) (map[string]product.Product, error)
}

type Service interface {
	Get(ctx context.Context, principal auth.Principal) (*Cart, error)
	AddItem(ctx context.Context, principal auth.Principal, productID string, quantity int) (*Cart, error)
	UpdateItem(ctx context.Context, principal auth.Principal, productID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, principal auth.Principal, productID string) (*Cart, error)
	Clear(ctx context.Context, principal auth.Principal) (*Cart, error)
	Merge(ctx context.Context, principal auth.Principal, local []LocalItem) (*Cart, error)
	Delete(ctx context.Context, userID string) error
}

type service struct {
	repo     Repository
	products ProductLookup
}

func NewService(repo Repository, products ProductLookup) Service {
	return &service{repo: repo, products: products}
}

// load returns the user's cart, or nil when there is none.
func (s *service) load(ctx context.Context, userID string) (*Cart, error) {
	c, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return nil, nil
	}
	return c, err
}

// resolve attaches current product data to every line and recomputes the
// total from it.
func (s *service) resolve(ctx context.Context, c *Cart) (map[string]product.Product, error) {
	catalog, err := s.products.Lookup(ctx, c.productIDs())
	if err != nil {
		return nil, err
	}

	for i := range c.Items {
		if p, ok := catalog[c.Items[i].ProductID]; ok {
			p := p
			c.Items[i].Product = &p
		} else {
			c.Items[i].Product = nil
		}
	}
	c.TotalPrice = ComputeTotal(c.Items, CatalogPrices(catalog))
	return catalog, nil
}

// persist resolves, prices and saves c.
func (s *service) persist(ctx context.Context, c *Cart) error {
	if _, err := s.resolve(ctx, c); err != nil {
		return err
	}
	return s.repo.Save(ctx, c)
}

func (s *service) Get(ctx context.Context, principal auth.Principal) (*Cart, error) {
	c, err := s.load(ctx, principal.UserID)
	if err != nil || c == nil {
		return nil, err
	}
	if _, err := s.resolve(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) AddItem(ctx context.Context, principal auth.Principal, productID string, quantity int) (c *Cart, err error) {
	defer func() { metrics.RecordCartOperation("add", err) }()

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)

	productID = utils.CanonicalID(productID)
	if productID == "" {
		return nil, ErrProductRequired
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	found, err := s.products.Lookup(ctx, []string{productID})
	if err != nil {
		return nil, err
	}
	p, ok := found[productID]
	if !ok || !p.InStock() {
		log.Info("product unavailable")
		return nil, ErrProductUnavailable
	}

	c, err = s.load(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &Cart{UserID: principal.UserID}
	}

	idx := c.find(productID)
	next := quantity
	if idx >= 0 {
		next += c.Items[idx].Quantity
	}
	if next > p.CountInStock {
		log.Info("requested quantity exceeds stock", zap.Int("stock", p.CountInStock), zap.Int("requested", next))
		return nil, ErrInsufficientStock
	}

	if idx >= 0 {
		c.Items[idx].Quantity = next
	} else {
		c.Items = append(c.Items, Item{ProductID: productID, Quantity: quantity})
	}

	if err := s.persist(ctx, c); err != nil {
		log.Error("failed to save cart", zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (s *service) UpdateItem(ctx context.Context, principal auth.Principal, productID string, quantity int) (c *Cart, err error) {
	defer func() { metrics.RecordCartOperation("update", err) }()

	productID = utils.CanonicalID(productID)
	c, err = s.load(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}

	idx := c.find(productID)
	if idx < 0 {
		return nil, ErrItemNotFound
	}

	if quantity <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	} else {
		catalog, err := s.products.Lookup(ctx, []string{productID})
		if err != nil {
			return nil, err
		}
		p, ok := catalog[productID]
		if !ok {
			return nil, ErrProductUnavailable
		}
		if quantity > p.CountInStock {
			return nil, ErrInsufficientStock
		}
		c.Items[idx].Quantity = quantity
	}

	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) RemoveItem(ctx context.Context, principal auth.Principal, productID string) (c *Cart, err error) {
	defer func() { metrics.RecordCartOperation("remove", err) }()

	productID = utils.CanonicalID(productID)
	c, err = s.load(ctx, principal.UserID)
	if err != nil || c == nil {
		return nil, err
	}

	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept

	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Clear(ctx context.Context, principal auth.Principal) (c *Cart, err error) {
	defer func() { metrics.RecordCartOperation("clear", err) }()

	c, err = s.load(ctx, principal.UserID)
	if err != nil || c == nil {
		return nil, err
	}

	c.Items = []Item{}
	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Merge folds an anonymous client cart into the user's server cart. It is
// additive, so replaying the same snapshot counts its quantities twice.
// No stock ceiling applies here.
func (s *service) Merge(ctx context.Context, principal auth.Principal, local []LocalItem) (c *Cart, err error) {
	defer func() { metrics.RecordCartOperation("merge", err) }()

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Merge"),
		zap.Int("local_items", len(local)),
	)

	if err := validateLocal(local); err != nil {
		return nil, err
	}

	c, err = s.load(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &Cart{UserID: principal.UserID}
	}
	c.Items = MergeItems(c.Items, local)

	catalog, err := s.resolve(ctx, c)
	if err != nil {
		return nil, err
	}
	if unresolved := len(c.Items) - countResolved(c.Items, catalog); unresolved > 0 {
		log.Warn("merged cart references unknown products", zap.Int("unresolved", unresolved))
	}

	if err := s.repo.Save(ctx, c); err != nil {
		log.Error("failed to save merged cart", zap.Error(err))
		return nil, err
	}
	return c, nil
}

// Delete drops the user's cart after checkout.
func (s *service) Delete(ctx context.Context, userID string) error {
	return s.repo.DeleteByUserID(ctx, userID)
}

func countResolved(items []Item, catalog map[string]product.Product) int {
	n := 0
	for _, it := range items {
		if _, ok := catalog[it.ProductID]; ok {
			n++
		}
	}
	return n
}
