package payment

import (
	"context"

	"storefront-be/internal/metrics"
	"storefront-be/internal/product"
	"storefront-be/internal/utils"

	"github.com/shopspring/decimal"
)

// ProductLookup resolves product ids to current catalogue data.
type ProductLookup interface {
	Lookup(ctx context.Context, ids []string) (map[string]product.Product, error)
}

type Service interface {
	CreateIntent(ctx context.Context, items []ItemRequest) (*Intent, error)
}

type service struct {
	products ProductLookup
	gateway  Gateway
}

func NewService(products ProductLookup, gateway Gateway) Service {
	return &service{products: products, gateway: gateway}
}

// Amount prices items at current catalogue prices and returns the total in
// cents, rounded half away from zero. Ids missing from catalog and
// non-positive quantities add nothing. A repeated id is charged once with
// its first quantity. Ids are compared in canonical uuid form.
func Amount(items []ItemRequest, catalog map[string]product.Product) int64 {
	total := decimal.Zero
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		id := utils.CanonicalID(it.ID)
		if seen[id] {
			continue
		}
		seen[id] = true

		p, ok := catalog[id]
		if !ok || it.Quantity < 1 {
			continue
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Shift(2).Round(0).IntPart()
}

func (s *service) CreateIntent(ctx context.Context, items []ItemRequest) (intent *Intent, err error) {
	defer func() { metrics.RecordOrderOperation("payment_intent", err) }()

	if len(items) == 0 {
		return nil, ErrNoItems
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, utils.CanonicalID(it.ID))
	}
	catalog, err := s.products.Lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	amount := Amount(items, catalog)
	if amount <= 0 {
		return nil, ErrNothingToCharge
	}
	return s.gateway.CreatePaymentIntent(ctx, amount, Currency)
}
