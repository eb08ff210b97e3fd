package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"storefront-be/internal/auth"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

// TokenIssuer signs access tokens for a principal.
type TokenIssuer interface {
	Generate(p auth.Principal) (string, error)
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (Session, error)
	Login(ctx context.Context, input LoginInput) (Session, error)
	Profile(ctx context.Context, principal auth.Principal) (User, error)
	UpdateProfile(ctx context.Context, principal auth.Principal, input UpdateProfileInput) (Session, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	tokens TokenIssuer
}

func NewService(repo Repository, tokens TokenIssuer) Service {
	return &service{repo: repo, tokens: tokens}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (s *service) session(u User) (Session, error) {
	token, err := s.tokens.Generate(u.Principal())
	if err != nil {
		return Session{}, err
	}
	return Session{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin, Token: token}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Session{}, ErrNameRequired
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return Session{}, err
	}
	if len(input.Password) < minPasswordLen {
		return Session{}, ErrPasswordTooShort
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return Session{}, err
	}

	u, err := s.repo.Create(ctx, User{Name: name, Email: email, Password: hashed})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			log.Warn("register with existing email", zap.String("email", email))
		}
		return Session{}, err
	}

	log.Info("user registered", zap.String("user_id", u.ID))
	return s.session(u)
}

func (s *service) Login(ctx context.Context, input LoginInput) (Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	email := strings.ToLower(strings.TrimSpace(input.Email))
	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		log.Info("login for unknown email")
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}

	if !CheckPasswordHash(input.Password, u.Password) {
		log.Info("password mismatch", zap.String("user_id", u.ID))
		return Session{}, ErrInvalidCredentials
	}

	return s.session(u)
}

func (s *service) Profile(ctx context.Context, principal auth.Principal) (User, error) {
	return s.repo.FindByID(ctx, principal.UserID)
}

func (s *service) UpdateProfile(ctx context.Context, principal auth.Principal, input UpdateProfileInput) (Session, error) {
	u, err := s.repo.FindByID(ctx, principal.UserID)
	if err != nil {
		return Session{}, err
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		u.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		email, err := normalizeEmail(*input.Email)
		if err != nil {
			return Session{}, err
		}
		u.Email = email
	}
	if input.Password != nil && *input.Password != "" {
		if len(*input.Password) < minPasswordLen {
			return Session{}, ErrPasswordTooShort
		}
		hashed, err := HashPassword(*input.Password)
		if err != nil {
			return Session{}, err
		}
		u.Password = hashed
	}

	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		return Session{}, err
	}
	return s.session(updated)
}

func (s *service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if !utils.IsUUID(id) {
		return ErrUserNotFound
	}
	return s.repo.Delete(ctx, id)
}
