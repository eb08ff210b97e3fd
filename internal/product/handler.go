package product

import (
	"net/http"

	"storefront-be/internal/auth"
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
	opts := ListOptions{
		Search:     r.URL.Query().Get("search"),
		CategoryID: r.URL.Query().Get("category"),
		Pagination: utils.ParsePagination(r),
		Sort:       utils.ParseSort(r, SortColumns, DefaultSort),
	}

	products, total, err := h.svc.List(r.Context(), opts)
	if err != nil {
		return err
	}
	return transport.Page(w, map[string]any{"products": products}, len(products), total, opts.Page, opts.Limit)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusOK, map[string]any{"product": p})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	var in Input
	if err := transport.DecodeJSON(r, &in, false); err != nil {
		return err
	}

	principal, _ := auth.PrincipalFrom(r.Context())
	p, err := h.svc.Create(r.Context(), principal, in)
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusCreated, map[string]any{"product": p})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) error {
	var in Input
	if err := transport.DecodeJSON(r, &in, false); err != nil {
		return err
	}

	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusOK, map[string]any{"product": p})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}
	return transport.OK(w, http.StatusOK, nil)
}
