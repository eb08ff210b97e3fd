package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, name, email, password, is_admin, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *repository) Create(ctx context.Context, u User) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		u.Name, u.Email, u.Password, u.IsAdmin,
	)

	created, err := scanUser(row)
	if isUniqueViolation(err) {
		return User{}, ErrUserExists
	}
	if err != nil {
		logger.FromCtx(ctx).Error("insert user failed",
			zap.String("layer", "repository"),
			zap.String("email", u.Email),
			zap.Error(err),
		)
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *repository) Update(ctx context.Context, u User) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET name = $2, email = $3, password = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.Password,
	)

	updated, err := scanUser(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return User{}, ErrUserNotFound
	case isUniqueViolation(err):
		return User{}, ErrUserExists
	case err != nil:
		return User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
