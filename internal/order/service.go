package order

import (
	"context"
	"strings"
	"time"

	"storefront-be/internal/auth"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/product"
	"storefront-be/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductLookup resolves product ids to current catalogue data.
type ProductLookup interface {
	Lookup(ctx context.Context, ids []string) (map[string]product.Product, error)
}

// CartRemover drops a user's cart once an order has been placed.
type CartRemover interface {
	Delete(ctx context.Context, userID string) error
}

type Service interface {
	Place(ctx context.Context, principal auth.Principal, in PlaceInput) (*Order, error)
	Get(ctx context.Context, principal auth.Principal, id string) (*Order, error)
	MyOrders(ctx context.Context, principal auth.Principal) ([]Order, error)
	List(ctx context.Context, opts ListOptions) ([]Order, int64, error)
	MarkPaid(ctx context.Context, principal auth.Principal, id string, result PaymentResult) (*Order, error)
	MarkDelivered(ctx context.Context, id string) (*Order, error)
	DeliverBulk(ctx context.Context, ids []string) (int64, error)
	Cancel(ctx context.Context, principal auth.Principal, id string) error
	DashboardStats(ctx context.Context, rangeKey string) (*Stats, error)
}

type service struct {
	repo     Repository
	products ProductLookup
	carts    CartRemover
	now      func() time.Time
}

func NewService(repo Repository, products ProductLookup, carts CartRemover) Service {
	return &service{
		repo:     repo,
		products: products,
		carts:    carts,
		now:      time.Now,
	}
}

func validatePlace(in PlaceInput) error {
	if len(in.OrderItems) == 0 {
		return ErrNoOrderItems
	}
	for _, item := range in.OrderItems {
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
		if !utils.IsUUID(item.ProductID) {
			return ErrProductNotFound
		}
	}
	a := in.ShippingAddress
	if strings.TrimSpace(a.Address) == "" || strings.TrimSpace(a.City) == "" ||
		strings.TrimSpace(a.PostalCode) == "" || strings.TrimSpace(a.Country) == "" {
		return ErrShippingRequired
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return ErrPaymentMethodRequired
	}
	return nil
}

// canonicalItems copies items with product ids in canonical uuid form.
func canonicalItems(items []OrderItem) []OrderItem {
	out := make([]OrderItem, len(items))
	for i, item := range items {
		item.ProductID = utils.CanonicalID(item.ProductID)
		out[i] = item
	}
	return out
}

// Place persists an order for the caller, takes its quantities out of stock
// and then drops the caller's cart. Client prices are stored as sent; a
// mismatch with current catalogue prices is only logged.
func (s *service) Place(ctx context.Context, principal auth.Principal, in PlaceInput) (o *Order, err error) {
	defer func() { metrics.RecordOrderOperation("place", err) }()

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Place"),
		zap.Int("items", len(in.OrderItems)),
	)

	in.OrderItems = canonicalItems(in.OrderItems)
	if err := validatePlace(in); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(in.OrderItems))
	for _, item := range in.OrderItems {
		ids = append(ids, item.ProductID)
	}
	catalog, err := s.products.Lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	computed := decimal.Zero
	for _, item := range in.OrderItems {
		p, ok := catalog[item.ProductID]
		if !ok {
			log.Info("order references unknown product", zap.String("product_id", item.ProductID))
			return nil, ErrProductNotFound
		}
		computed = computed.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if !computed.Equal(in.ItemsPrice) {
		log.Warn("client items price differs from catalogue",
			zap.String("client", in.ItemsPrice.StringFixed(2)),
			zap.String("catalogue", computed.StringFixed(2)),
		)
	}

	o = &Order{
		User:            Customer{ID: principal.UserID, Email: principal.Email},
		OrderItems:      append([]OrderItem(nil), in.OrderItems...),
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		ItemsPrice:      in.ItemsPrice,
		TaxPrice:        in.TaxPrice,
		ShippingPrice:   in.ShippingPrice,
		TotalPrice:      in.TotalPrice,
		IsPaid:          in.IsPaid,
		PaidAt:          in.PaidAt,
		PaymentResult:   in.PaymentResult,
	}
	if o.IsPaid && o.PaidAt == nil {
		now := s.now()
		o.PaidAt = &now
	}

	if err := s.repo.Create(ctx, o); err != nil {
		log.Error("failed to place order", zap.Error(err))
		return nil, err
	}

	if err := s.carts.Delete(ctx, principal.UserID); err != nil {
		log.Warn("order placed but cart was not deleted", zap.String("order_id", o.ID), zap.Error(err))
	}

	log.Info("order placed", zap.String("order_id", o.ID))
	return o, nil
}

func (s *service) find(ctx context.Context, id string) (*Order, error) {
	if !utils.IsUUID(id) {
		return nil, ErrOrderNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Get(ctx context.Context, principal auth.Principal, id string) (*Order, error) {
	o, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(o.User.ID) {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *service) MyOrders(ctx context.Context, principal auth.Principal) ([]Order, error) {
	return s.repo.ListByUser(ctx, principal.UserID)
}

// List serves the admin listing. A search that is not an order id matches
// nothing.
func (s *service) List(ctx context.Context, opts ListOptions) ([]Order, int64, error) {
	opts.Search = strings.TrimSpace(opts.Search)
	if opts.Search != "" && !utils.IsUUID(opts.Search) {
		return []Order{}, 0, nil
	}
	return s.repo.List(ctx, opts)
}

// MarkPaid records a payment. Empty result fields get the manual-payment
// placeholders.
func (s *service) MarkPaid(ctx context.Context, principal auth.Principal, id string, result PaymentResult) (o *Order, err error) {
	defer func() { metrics.RecordOrderOperation("pay", err) }()

	o, err = s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(o.User.ID) {
		return nil, ErrForbidden
	}

	now := s.now()
	result = result.withManualDefaults(now)
	if err := s.repo.MarkPaid(ctx, id, result, now); err != nil {
		return nil, err
	}

	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = &result
	o.UpdatedAt = now
	return o, nil
}

func (s *service) MarkDelivered(ctx context.Context, id string) (o *Order, err error) {
	defer func() { metrics.RecordOrderOperation("deliver", err) }()

	o, err = s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.repo.MarkDelivered(ctx, id, now); err != nil {
		return nil, err
	}

	o.IsDelivered = true
	o.DeliveredAt = &now
	o.UpdatedAt = now
	return o, nil
}

// DeliverBulk marks the listed orders delivered. Ids that are not valid
// order ids are skipped.
func (s *service) DeliverBulk(ctx context.Context, ids []string) (n int64, err error) {
	defer func() { metrics.RecordOrderOperation("deliver_bulk", err) }()

	if len(ids) == 0 {
		return 0, ErrNoOrderIDs
	}

	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if utils.IsUUID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return 0, nil
	}
	return s.repo.DeliverMany(ctx, valid, s.now())
}

func (s *service) Cancel(ctx context.Context, principal auth.Principal, id string) (err error) {
	defer func() { metrics.RecordOrderOperation("cancel", err) }()

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Cancel"),
		zap.String("order_id", id),
	)

	o, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !principal.CanAccess(o.User.ID) {
		return ErrCancelNotAllowed
	}
	if o.IsPaid || o.IsDelivered {
		return ErrNotCancellable
	}

	if err := s.repo.Cancel(ctx, o); err != nil {
		log.Error("failed to cancel order", zap.Error(err))
		return err
	}
	log.Info("order cancelled")
	return nil
}

func (s *service) DashboardStats(ctx context.Context, rangeKey string) (*Stats, error) {
	since := s.now().AddDate(0, 0, -RangeDays(rangeKey))
	return s.repo.DashboardStats(ctx, since)
}
