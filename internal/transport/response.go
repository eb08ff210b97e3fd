package transport

import (
	"encoding/json"
	"net/http"

	"storefront-be/internal/apperror"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFail    = "FAIL"
	StatusError   = "ERROR"
)

// Envelope is the body of every API response.
type Envelope struct {
	Status           string            `json:"status"`
	Data             any               `json:"data"`
	Message          string            `json:"message,omitempty"`
	Code             int               `json:"code,omitempty"`
	Results          *int              `json:"results,omitempty"`
	Total            *int64            `json:"total,omitempty"`
	PaginationResult *PaginationResult `json:"paginationResult,omitempty"`
}

type PaginationResult struct {
	CurrentPage   int   `json:"currentPage"`
	Limit         int   `json:"limit"`
	NumberOfPages int64 `json:"numberOfPages"`
}

func NewPaginationResult(page, limit int, total int64) *PaginationResult {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return &PaginationResult{CurrentPage: page, Limit: limit, NumberOfPages: pages}
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.L().Error("failed to encode response", zap.Error(err))
	}
}

// OK writes a SUCCESS envelope around data.
func OK(w http.ResponseWriter, status int, data any) error {
	WriteJSON(w, status, Envelope{Status: StatusSuccess, Data: data})
	return nil
}

// Message writes a SUCCESS envelope carrying only a message.
func Message(w http.ResponseWriter, status int, message string) error {
	WriteJSON(w, status, Envelope{Status: StatusSuccess, Message: message})
	return nil
}

// Page writes a SUCCESS envelope for a paginated listing.
func Page(w http.ResponseWriter, data any, results int, total int64, page, limit int) error {
	WriteJSON(w, http.StatusOK, Envelope{
		Status:           StatusSuccess,
		Data:             data,
		Results:          &results,
		Total:            &total,
		PaginationResult: NewPaginationResult(page, limit, total),
	})
	return nil
}

// WriteError converts err into the error envelope. Classified errors are
// FAIL with their kind's status; everything else is a 500 ERROR.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromCtx(r.Context()).With(
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	kind := apperror.KindOf(err)
	code := kind.StatusCode()

	status := StatusFail
	if kind == apperror.KindUnknown {
		status = StatusError
		log.Error("request failed", zap.Error(err))
	} else {
		log.Warn("request rejected", zap.Int("code", code), zap.Error(err))
	}

	WriteJSON(w, code, Envelope{
		Status:  status,
		Data:    nil,
		Message: err.Error(),
		Code:    code,
	})
}
