package user

import (
	"net/http"

	"storefront-be/internal/auth"
	"storefront-be/internal/transport"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) error {
	var in RegisterInput
	if err := transport.DecodeJSON(r, &in, false); err != nil {
		return err
	}
	sess, err := h.svc.Register(r.Context(), in)
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusCreated, map[string]any{"user": sess})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	var in LoginInput
	if err := transport.DecodeJSON(r, &in, false); err != nil {
		return err
	}
	sess, err := h.svc.Login(r.Context(), in)
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusOK, map[string]any{"user": sess})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) error {
	principal, _ := auth.PrincipalFrom(r.Context())
	u, err := h.svc.Profile(r.Context(), principal)
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusOK, u)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) error {
	var in UpdateProfileInput
	if err := transport.DecodeJSON(r, &in, false); err != nil {
		return err
	}
	principal, _ := auth.PrincipalFrom(r.Context())
	sess, err := h.svc.UpdateProfile(r.Context(), principal, in)
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusOK, map[string]any{"user": sess})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	users, err := h.svc.List(r.Context())
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}
	return transport.OK(w, http.StatusOK, nil)
}
