package order

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

type bulkDeliverRequest struct {
	OrdersIDs []string `json:"ordersIds"`
}

func writeOrder(w http.ResponseWriter, status int, o *Order) error {
	return transport.OK(w, status, map[string]any{"order": o})
}

func (h *Handler) Place(w http.ResponseWriter, r *http.Request) error {
	var in PlaceInput
	if err := transport.DecodeJSON(r, &in, false); err != nil {
		return err
	}

	principal, _ := auth.PrincipalFrom(r.Context())
	o, err := h.svc.Place(r.Context(), principal, in)
	if err != nil {
		return err
	}
	return writeOrder(w, http.StatusCreated, o)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	principal, _ := auth.PrincipalFrom(r.Context())
	o, err := h.svc.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	return writeOrder(w, http.StatusOK, o)
}

func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) error {
	principal, _ := auth.PrincipalFrom(r.Context())
	orders, err := h.svc.MyOrders(r.Context(), principal)
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	opts := ListOptions{
		Search:      r.URL.Query().Get("search"),
		IsPaid:      utils.ParseBool(r, "isPaid"),
		IsDelivered: utils.ParseBool(r, "isDelivered"),
		Pagination:  utils.ParsePagination(r),
		Sort:        utils.ParseSort(r, SortColumns, DefaultSort),
	}

	orders, total, err := h.svc.List(r.Context(), opts)
	if err != nil {
		return err
	}
	return transport.Page(w, map[string]any{"orders": orders}, len(orders), total, opts.Page, opts.Limit)
}

// Pay accepts an optional gateway payment result; without one the manual
// placeholders are recorded.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) error {
	var result PaymentResult
	if err := transport.DecodeJSON(r, &result, true); err != nil {
		return err
	}

	principal, _ := auth.PrincipalFrom(r.Context())
	o, err := h.svc.MarkPaid(r.Context(), principal, chi.URLParam(r, "id"), result)
	if err != nil {
		return err
	}
	return writeOrder(w, http.StatusOK, o)
}

func (h *Handler) Deliver(w http.ResponseWriter, r *http.Request) error {
	o, err := h.svc.MarkDelivered(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	return writeOrder(w, http.StatusOK, o)
}

func (h *Handler) DeliverBulk(w http.ResponseWriter, r *http.Request) error {
	var req bulkDeliverRequest
	if err := transport.DecodeJSON(r, &req, false); err != nil {
		return err
	}

	n, err := h.svc.DeliverBulk(r.Context(), req.OrdersIDs)
	if err != nil {
		return err
	}
	transport.WriteJSON(w, http.StatusOK, transport.Envelope{
		Status:  transport.StatusSuccess,
		Data:    map[string]any{"updated": n},
		Message: "All selected orders updated",
	})
	return nil
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) error {
	principal, _ := auth.PrincipalFrom(r.Context())
	if err := h.svc.Cancel(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		return err
	}
	return transport.Message(w, http.StatusOK, "Order cancelled successfully")
}

func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.svc.DashboardStats(r.Context(), r.URL.Query().Get("range"))
	if err != nil {
		return err
	}
	return transport.OK(w, http.StatusOK, stats)
}
