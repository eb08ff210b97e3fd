package cart

import (
	"bytes"
	"encoding/json"
	"net/http"

	"storefront-be/internal/auth"
	"storefront-be/internal/transport"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type itemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type mergeRequest struct {
	LocalItems json.RawMessage `json:"localItems"`
}

func writeCart(w http.ResponseWriter, c *Cart) error {
	return transport.OK(w, http.StatusOK, map[string]any{"cart": c})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	principal, _ := auth.PrincipalFrom(r.Context())
	c, err := h.svc.Get(r.Context(), principal)
	if err != nil {
		return err
	}
	return writeCart(w, c)
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) error {
	var req itemRequest
	if err := transport.DecodeJSON(r, &req, false); err != nil {
		return err
	}
	principal, _ := auth.PrincipalFrom(r.Context())
	c, err := h.svc.AddItem(r.Context(), principal, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return writeCart(w, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) error {
	var req itemRequest
	if err := transport.DecodeJSON(r, &req, false); err != nil {
		return err
	}
	principal, _ := auth.PrincipalFrom(r.Context())
	c, err := h.svc.UpdateItem(r.Context(), principal, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return writeCart(w, c)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) error {
	var req itemRequest
	if err := transport.DecodeJSON(r, &req, false); err != nil {
		return err
	}
	principal, _ := auth.PrincipalFrom(r.Context())
	c, err := h.svc.RemoveItem(r.Context(), principal, req.ProductID)
	if err != nil {
		return err
	}
	return writeCart(w, c)
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) error {
	principal, _ := auth.PrincipalFrom(r.Context())
	c, err := h.svc.Clear(r.Context(), principal)
	if err != nil {
		return err
	}
	return writeCart(w, c)
}

func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) error {
	var req mergeRequest
	if err := transport.DecodeJSON(r, &req, true); err != nil {
		return err
	}

	raw := bytes.TrimSpace(req.LocalItems)
	if len(raw) == 0 || raw[0] != '[' {
		return ErrLocalItemsNotArray
	}

	var local []LocalItem
	if err := json.Unmarshal(raw, &local); err != nil {
		return ErrInvalidLocalItem
	}

	principal, _ := auth.PrincipalFrom(r.Context())
	c, err := h.svc.Merge(r.Context(), principal, local)
	if err != nil {
		return err
	}
	return writeCart(w, c)
}
