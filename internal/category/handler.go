package category

import (
	"net/http"

	"storefront-be/internal/transport"
	"storefront-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	page := utils.ParsePagination(r)
	categories, total, err := h.svc.List(r.Context(), r.URL.Query().Get("search"), page)
	if err != nil {
		return err
	}
	return transport.Page(w, map[string]any{"categories": categories}, len(categories), total, page.Page, page.Limit)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusOK, map[string]any{"category": c})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	var in Input
	if err := transport.DecodeJSON(r, &in, false); err != nil {
		return err
	}
	c, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusCreated, map[string]any{"category": c})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) error {
	var in Input
	if err := transport.DecodeJSON(r, &in, false); err != nil {
		return err
	}
	c, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusOK, map[string]any{"category": c})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	c, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusOK, map[string]any{"category": c})
}
