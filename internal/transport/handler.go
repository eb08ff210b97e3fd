package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"storefront-be/internal/apperror"
)

// HandlerFunc is an http handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to net/http. It is the only place errors become responses.
func Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			WriteError(w, r, err)
		}
	}
}

var ErrInvalidBody = apperror.InvalidInput("invalid JSON body")

// DecodeJSON decodes the request body into dst. An empty body is allowed
// when allowEmpty is set and leaves dst untouched.
func DecodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	if r.Body == nil {
		if allowEmpty {
			return nil
		}
		return ErrInvalidBody
	}

	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	if err != nil {
		return ErrInvalidBody
	}
	return nil
}
