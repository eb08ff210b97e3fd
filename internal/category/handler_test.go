package category

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-be/internal/transport"
	"storefront-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) result(args mock.Arguments) (*Category, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Category), args.Error(1)
}

func (m *MockService) List(ctx context.Context, search string, page utils.Pagination) ([]Category, int64, error) {
	args := m.Called(ctx, search, page)
	return args.Get(0).([]Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockService) Get(ctx context.Context, id string) (*Category, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockService) Create(ctx context.Context, input Input) (*Category, error) {
	return m.result(m.Called(ctx, input))
}

func (m *MockService) Update(ctx context.Context, id string, input Input) (*Category, error) {
	return m.result(m.Called(ctx, id, input))
}

func (m *MockService) Delete(ctx context.Context, id string) (*Category, error) {
	return m.result(m.Called(ctx, id))
}

func newTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/categories", transport.Handle(h.List))
	r.Post("/categories", transport.Handle(h.Create))
	r.Delete("/categories/{id}", transport.Handle(h.Delete))
	return r
}

func TestHandler_List(t *testing.T) {
	svc := new(MockService)
	svc.On("List", mock.Anything, "shoe", utils.Pagination{Page: 1, Limit: 5}).
		Return([]Category{{ID: catID, Title: "Shoes", ProductsCount: 7}}, int64(6), nil)

	rr := httptest.NewRecorder()
	newTestRouter(NewHandler(svc)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/categories?search=shoe&limit=5", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["paginationResult"].(map[string]any)["numberOfPages"])
	cats := body["data"].(map[string]any)["categories"].([]any)
	assert.Equal(t, float64(7), cats[0].(map[string]any)["productsCount"])
}

func TestHandler_Create(t *testing.T) {
	t.Run("Duplicate", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, ErrCategoryExists)

		rr := httptest.NewRecorder()
		newTestRouter(NewHandler(svc)).ServeHTTP(rr,
			httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"title":"Shoes"}`)))

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "category already exist")
	})

	t.Run("Created", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(in Input) bool {
			return in.Title != nil && *in.Title == "Hats"
		})).Return(&Category{ID: catID, Title: "Hats"}, nil)

		rr := httptest.NewRecorder()
		newTestRouter(NewHandler(svc)).ServeHTTP(rr,
			httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"title":"Hats"}`)))

		assert.Equal(t, http.StatusCreated, rr.Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	svc := new(MockService)
	svc.On("Delete", mock.Anything, catID).Return(&Category{ID: catID, Title: "Hats"}, nil)

	rr := httptest.NewRecorder()
	newTestRouter(NewHandler(svc)).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/categories/"+catID, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"Hats"`)
}
