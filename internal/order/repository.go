package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	List(ctx context.Context, opts ListOptions) ([]Order, int64, error)
	MarkPaid(ctx context.Context, id string, result PaymentResult, paidAt time.Time) error
	MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) error
	DeliverMany(ctx context.Context, ids []string, deliveredAt time.Time) (int64, error)
	Cancel(ctx context.Context, o *Order) error
	DashboardStats(ctx context.Context, since time.Time) (*Stats, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `o.id, o.user_id, COALESCE(u.name, ''), COALESCE(u.email, ''),
	o.shipping_address, o.shipping_city, o.shipping_postal_code, o.shipping_country, o.shipping_phone,
	o.payment_method, o.items_price, o.tax_price, o.shipping_price, o.total_price,
	o.is_paid, o.paid_at, o.payment_result_id, o.payment_result_status, o.payment_result_update, o.payment_result_email,
	o.is_delivered, o.delivered_at, o.created_at, o.updated_at`

const orderFrom = ` FROM orders o LEFT JOIN users u ON u.id = o.user_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var (
		o                   Order
		paidAt, deliveredAt sql.NullTime
		prID, prStatus      sql.NullString
		prUpdate, prEmail   sql.NullString
	)
	err := row.Scan(
		&o.ID, &o.User.ID, &o.User.Name, &o.User.Email,
		&o.ShippingAddress.Address, &o.ShippingAddress.City, &o.ShippingAddress.PostalCode,
		&o.ShippingAddress.Country, &o.ShippingAddress.Phone,
		&o.PaymentMethod, &o.ItemsPrice, &o.TaxPrice, &o.ShippingPrice, &o.TotalPrice,
		&o.IsPaid, &paidAt, &prID, &prStatus, &prUpdate, &prEmail,
		&o.IsDelivered, &deliveredAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return Order{}, err
	}
	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}
	if deliveredAt.Valid {
		o.DeliveredAt = &deliveredAt.Time
	}
	if prID.Valid {
		o.PaymentResult = &PaymentResult{
			ID:           prID.String,
			Status:       prStatus.String,
			UpdateTime:   prUpdate.String,
			EmailAddress: prEmail.String,
		}
	}
	o.OrderItems = []OrderItem{}
	return o, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts the order with its lines and takes the ordered quantities
// out of stock in one transaction. A line whose product cannot cover its
// quantity aborts the whole placement with ErrInsufficientStock.
func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback()

	var pr PaymentResult
	if o.PaymentResult != nil {
		pr = *o.PaymentResult
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			user_id, shipping_address, shipping_city, shipping_postal_code, shipping_country, shipping_phone,
			payment_method, items_price, tax_price, shipping_price, total_price,
			is_paid, paid_at, payment_result_id, payment_result_status, payment_result_update, payment_result_email
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING id, created_at, updated_at`,
		o.User.ID, o.ShippingAddress.Address, o.ShippingAddress.City, o.ShippingAddress.PostalCode,
		o.ShippingAddress.Country, o.ShippingAddress.Phone,
		o.PaymentMethod, o.ItemsPrice, o.TaxPrice, o.ShippingPrice, o.TotalPrice,
		o.IsPaid, o.PaidAt, nullable(pr.ID), nullable(pr.Status), nullable(pr.UpdateTime), nullable(pr.EmailAddress),
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("insert order failed", zap.Error(err))
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.OrderItems {
		item := &o.OrderItems[i]

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, image, price, quantity, position)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING id`,
			o.ID, item.ProductID, item.Name, item.Image, item.Price, item.Quantity, i,
		).Scan(&item.ID)
		if err != nil {
			log.Error("insert order item failed", zap.String("product_id", item.ProductID), zap.Error(err))
			return fmt.Errorf("insert order item: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET count_in_stock = count_in_stock - $1, updated_at = NOW()
			WHERE id = $2 AND count_in_stock >= $1`,
			item.Quantity, item.ProductID,
		)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			log.Info("insufficient stock", zap.String("product_id", item.ProductID), zap.Int("quantity", item.Quantity))
			return ErrInsufficientStock
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+orderFrom+" WHERE o.id = $1", id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("get order failed",
			zap.String("layer", "repository"),
			zap.String("order_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get order: %w", err)
	}

	orders := []Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+orderColumns+orderFrom+" WHERE o.user_id = $1 ORDER BY o.created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]Order, int64, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	where := []string{}
	args := []any{}

	if opts.Search != "" {
		args = append(args, opts.Search)
		where = append(where, fmt.Sprintf("o.id = $%d", len(args)))
	}
	if opts.IsPaid != nil {
		args = append(args, *opts.IsPaid)
		where = append(where, fmt.Sprintf("o.is_paid = $%d", len(args)))
	}
	if opts.IsDelivered != nil {
		args = append(args, *opts.IsDelivered)
		where = append(where, fmt.Sprintf("o.is_delivered = $%d", len(args)))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders o"+whereSQL, args...).Scan(&total); err != nil {
		log.Error("count orders failed", zap.Error(err))
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	sort := opts.Sort
	if sort.Column == "" {
		sort = DefaultSort
	}

	query := "SELECT " + orderColumns + orderFrom + whereSQL +
		" ORDER BY " + sort.SQL() +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, opts.Limit, opts.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("list orders failed", zap.Error(err))
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func collectOrders(rows *sql.Rows) ([]Order, error) {
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// attachItems loads the lines of every order in one query.
func (r *repository) attachItems(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, name, image, price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item    OrderItem
			orderID string
		)
		if err := rows.Scan(&item.ID, &orderID, &item.ProductID, &item.Name, &item.Image, &item.Price, &item.Quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].OrderItems = append(orders[i].OrderItems, item)
		}
	}
	return rows.Err()
}

func (r *repository) MarkPaid(ctx context.Context, id string, result PaymentResult, paidAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET is_paid = TRUE, paid_at = $2,
			payment_result_id = $3, payment_result_status = $4,
			payment_result_update = $5, payment_result_email = $6,
			updated_at = NOW()
		WHERE id = $1`,
		id, paidAt, result.ID, result.Status, result.UpdateTime, result.EmailAddress,
	)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET is_delivered = TRUE, delivered_at = $2, updated_at = NOW() WHERE id = $1`,
		id, deliveredAt,
	)
	if err != nil {
		return fmt.Errorf("mark order delivered: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// DeliverMany marks every listed order delivered in a single statement and
// reports how many rows changed.
func (r *repository) DeliverMany(ctx context.Context, ids []string, deliveredAt time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET is_delivered = TRUE, delivered_at = $2, updated_at = NOW() WHERE id = ANY($1)`,
		pq.Array(ids), deliveredAt,
	)
	if err != nil {
		return 0, fmt.Errorf("deliver orders: %w", err)
	}
	return res.RowsAffected()
}

// Cancel puts every line's quantity back into stock and deletes the order.
// The delete only matches while the order is neither paid nor delivered.
func (r *repository) Cancel(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Cancel"),
		zap.String("order_id", o.ID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cancel tx: %w", err)
	}
	defer tx.Rollback()

	for _, item := range o.OrderItems {
		_, err := tx.ExecContext(ctx,
			`UPDATE products SET count_in_stock = count_in_stock + $1, updated_at = NOW() WHERE id = $2`,
			item.Quantity, item.ProductID,
		)
		if err != nil {
			log.Error("restore stock failed", zap.String("product_id", item.ProductID), zap.Error(err))
			return fmt.Errorf("restore stock: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM orders WHERE id = $1 AND is_paid = FALSE AND is_delivered = FALSE`, o.ID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotCancellable
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cancel: %w", err)
	}
	return nil
}

func (r *repository) DashboardStats(ctx context.Context, since time.Time) (*Stats, error) {
	stats := &Stats{SalesChart: []DailySales{}}

	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE is_paid = TRUE`,
	).Scan(&stats.TotalSales)
	if err != nil {
		return nil, fmt.Errorf("sum sales: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM users)`,
	).Scan(&stats.TotalOrders, &stats.TotalProducts, &stats.TotalUsers)
	if err != nil {
		return nil, fmt.Errorf("count totals: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, SUM(total_price)
		FROM orders
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day`, since)
	if err != nil {
		return nil, fmt.Errorf("sales chart: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d DailySales
		if err := rows.Scan(&d.Day, &d.Sales); err != nil {
			return nil, fmt.Errorf("scan sales day: %w", err)
		}
		stats.SalesChart = append(stats.SalesChart, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

