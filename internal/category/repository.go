package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

type Repository interface {
	List(ctx context.Context, search string, page utils.Pagination) ([]Category, int64, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	Create(ctx context.Context, c Category) (*Category, error)
	Update(ctx context.Context, c Category) (*Category, error)
	Delete(ctx context.Context, id string) (*Category, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (r *repository) List(ctx context.Context, search string, page utils.Pagination) ([]Category, int64, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
		zap.String("search", search),
		zap.Int("page", page.Page),
		zap.Int("limit", page.Limit),
	)

	where := ""
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where = " WHERE c.title ILIKE $1"
		if utils.IsUUID(search) {
			args = append(args, search)
			where = " WHERE (c.title ILIKE $1 OR c.id = $2)"
		}
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories c"+where, args...).Scan(&total); err != nil {
		log.Error("count categories failed", zap.Error(err))
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	query := `
		SELECT c.id, c.title, c.image, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id) AS products_count
		FROM categories c` + where +
		fmt.Sprintf(" ORDER BY c.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("list categories failed", zap.Error(err))
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0, page.Limit)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Image, &c.CreatedAt, &c.UpdatedAt, &c.ProductsCount); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, total, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id string) (*Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, image, created_at, updated_at FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.Image, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, c Category) (*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("title", c.Title),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (title, image)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`,
		c.Title, c.Image,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		log.Warn("duplicate category title")
		return nil, ErrCategoryExists
	}
	if err != nil {
		log.Error("insert category failed", zap.Error(err))
		return nil, fmt.Errorf("create category: %w", err)
	}

	log.Info("category created", zap.String("category_id", c.ID))
	return &c, nil
}

func (r *repository) Update(ctx context.Context, c Category) (*Category, error) {
	err := r.db.QueryRowContext(ctx, `
		UPDATE categories SET title = $2, image = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		c.ID, c.Title, c.Image,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrCategoryExists
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &c, nil
}

func (r *repository) Delete(ctx context.Context, id string) (*Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM categories WHERE id = $1 RETURNING id, title, image, created_at, updated_at`, id,
	).Scan(&c.ID, &c.Title, &c.Image, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}
	return &c, nil
}
