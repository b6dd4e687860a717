// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/sales-stock-service/internal/sales"
	"github.com/fairyhunter13/sales-stock-service/internal/store"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Details: details})
}

// WriteJSON writes a success payload with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeSalesError maps the sales error taxonomy onto HTTP statuses.
func writeSalesError(w http.ResponseWriter, err error) {
	var (
		validation   *sales.ValidationError
		notFound     *sales.ProductNotFoundError
		insufficient *sales.InsufficientStockError
	)
	switch {
	case errors.As(err, &validation):
		WriteJSONError(w, http.StatusBadRequest, "validation_error", validation.Reason)
	case errors.As(err, &notFound):
		WriteJSONError(w, http.StatusNotFound, "product_not_found", notFound.Error())
	case errors.As(err, &insufficient):
		WriteJSONError(w, http.StatusConflict, "insufficient_stock", insufficient.Error())
	case errors.Is(err, store.ErrDuplicateCode):
		WriteJSONError(w, http.StatusConflict, "duplicate_code", err.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
