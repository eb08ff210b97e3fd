package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-be/internal/auth"
	"storefront-be/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, input RegisterInput) (Session, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(Session), args.Error(1)
}

func (m *MockService) Login(ctx context.Context, input LoginInput) (Session, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(Session), args.Error(1)
}

func (m *MockService) Profile(ctx context.Context, principal auth.Principal) (User, error) {
	args := m.Called(ctx, principal)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockService) UpdateProfile(ctx context.Context, principal auth.Principal, input UpdateProfileInput) (Session, error) {
	args := m.Called(ctx, principal, input)
	return args.Get(0).(Session), args.Error(1)
}

func (m *MockService) List(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/auth/register", transport.Handle(h.Register))
	r.Post("/auth/login", transport.Handle(h.Login))
	r.Get("/users/profile", transport.Handle(h.Profile))
	r.Delete("/users/{id}", transport.Handle(h.Delete))
	return r
}

func TestHandler_Register(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Register", mock.Anything, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"}).
			Return(Session{ID: uid, Name: "Jane", Email: "jane@example.com", Token: "tok"}, nil)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/register",
			strings.NewReader(`{"name":"Jane","email":"jane@example.com","password":"secret1"}`))
		newTestRouter(NewHandler(svc)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var body struct {
			Data struct {
				User Session `json:"user"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "tok", body.Data.User.Token)
	})

	t.Run("Email taken", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Register", mock.Anything, mock.Anything).Return(Session{}, ErrUserExists)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"email":"jane@example.com"}`))
		newTestRouter(NewHandler(svc)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestHandler_Login(t *testing.T) {
	svc := new(MockService)
	svc.On("Login", mock.Anything, LoginInput{Email: "jane@example.com", Password: "wrong"}).
		Return(Session{}, ErrInvalidCredentials)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"jane@example.com","password":"wrong"}`))
	newTestRouter(NewHandler(svc)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"FAIL"`)
}

func TestHandler_Profile(t *testing.T) {
	svc := new(MockService)
	p := auth.Principal{UserID: uid, Role: auth.RoleUser}
	svc.On("Profile", mock.Anything, p).Return(User{ID: uid, Name: "Jane", Password: "hash"}, nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), p))
	newTestRouter(NewHandler(svc)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Jane"`)
	assert.NotContains(t, rr.Body.String(), "hash")
}

func TestHandler_Delete(t *testing.T) {
	svc := new(MockService)
	svc.On("Delete", mock.Anything, "missing").Return(ErrUserNotFound)

	rr := httptest.NewRecorder()
	newTestRouter(NewHandler(svc)).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/users/missing", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
