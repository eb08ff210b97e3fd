package payment

import (
	"net/http"

	"storefront-be/internal/transport"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type intentRequest struct {
	OrderItems []ItemRequest `json:"orderItems"`
}

func (h *Handler) CreateIntent(w http.ResponseWriter, r *http.Request) error {
	var req intentRequest
	if err := transport.DecodeJSON(r, &req, false); err != nil {
		return err
	}

	intent, err := h.svc.CreateIntent(r.Context(), req.OrderItems)
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusOK, map[string]any{"clientSecret": intent.ClientSecret})
}
