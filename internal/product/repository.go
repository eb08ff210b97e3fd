package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Product, int64, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]Product, error)
	Create(ctx context.Context, p Product) (*Product, error)
	Update(ctx context.Context, p Product) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, user_id, name, image, description, brand, category_id, price, count_in_stock, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p          Product
		userID     sql.NullString
		categoryID sql.NullString
	)
	err := row.Scan(
		&p.ID, &userID, &p.Name, &p.Image, &p.Description, &p.Brand,
		&categoryID, &p.Price, &p.CountInStock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return Product{}, err
	}
	if userID.Valid {
		p.UserID = &userID.String
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.String
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]Product, int64, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	where := []string{}
	args := []any{}

	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if opts.CategoryID != "" {
		args = append(args, opts.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+whereSQL, args...).Scan(&total); err != nil {
		log.Error("count products failed", zap.Error(err))
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	sort := opts.Sort
	if sort.Column == "" {
		sort = DefaultSort
	}

	query := "SELECT " + productColumns + " FROM products" + whereSQL +
		" ORDER BY " + sort.SQL() +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, opts.Limit, opts.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("list products failed", zap.Error(err))
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0, opts.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("get product failed",
			zap.String("layer", "repository"),
			zap.String("product_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetByIDs resolves many products in one round trip. The result is keyed
// by canonical id. Ids that are not valid uuids or match no row are absent
// from the result.
func (r *repository) GetByIDs(ctx context.Context, ids []string) (map[string]Product, error) {
	valid := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		if !utils.IsUUID(raw) {
			continue
		}
		id := utils.CanonicalID(raw)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		valid = append(valid, id)
	}

	result := make(map[string]Product, len(valid))
	if len(valid) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ANY($1)",
		pq.Array(valid),
	)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		result[p.ID] = p
	}
	return result, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Product) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO products (user_id, name, image, description, brand, category_id, price, count_in_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+productColumns,
		p.UserID, p.Name, p.Image, p.Description, p.Brand, p.CategoryID, p.Price, p.CountInStock,
	)

	created, err := scanProduct(row)
	if err != nil {
		logger.FromCtx(ctx).Error("create product failed", zap.String("layer", "repository"), zap.Error(err))
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &created, nil
}

func (r *repository) Update(ctx context.Context, p Product) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET name = $2, image = $3, description = $4, brand = $5, category_id = $6,
		    price = $7, count_in_stock = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		p.ID, p.Name, p.Image, p.Description, p.Brand, p.CategoryID, p.Price, p.CountInStock,
	)

	updated, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &updated, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}
