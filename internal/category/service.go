package category

import (
	"context"
	"strings"
	"unicode/utf8"

	"storefront-be/internal/utils"
)

type Service interface {
	List(ctx context.Context, search string, page utils.Pagination) ([]Category, int64, error)
	Get(ctx context.Context, id string) (*Category, error)
	Create(ctx context.Context, input Input) (*Category, error)
	Update(ctx context.Context, id string, input Input) (*Category, error)
	Delete(ctx context.Context, id string) (*Category, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	switch {
	case n == 0:
		return ErrTitleRequired
	case n < minTitleLen:
		return ErrTitleTooShort
	case n > maxTitleLen:
		return ErrTitleTooLong
	}
	return nil
}

func (s *service) List(ctx context.Context, search string, page utils.Pagination) ([]Category, int64, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), page)
}

func (s *service) Get(ctx context.Context, id string) (*Category, error) {
	if !utils.IsUUID(id) {
		return nil, ErrCategoryNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, input Input) (*Category, error) {
	var c Category
	if input.Title != nil {
		c.Title = strings.TrimSpace(*input.Title)
	}
	if err := validateTitle(c.Title); err != nil {
		return nil, err
	}
	if input.Image != nil {
		c.Image = *input.Image
	}
	return s.repo.Create(ctx, c)
}

func (s *service) Update(ctx context.Context, id string, input Input) (*Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		c.Title = strings.TrimSpace(*input.Title)
		if err := validateTitle(c.Title); err != nil {
			return nil, err
		}
	}
	if input.Image != nil {
		c.Image = *input.Image
	}
	return s.repo.Update(ctx, *c)
}

func (s *service) Delete(ctx context.Context, id string) (*Category, error) {
	if !utils.IsUUID(id) {
		return nil, ErrCategoryNotFound
	}
	return s.repo.Delete(ctx, id)
}
