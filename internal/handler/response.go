package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"stock_orders/internal/domain"
)

// WriteJSON writes a JSON response with the given status code and data.
// Sets Content-Type to application/json before writing the status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) // Write error intentionally ignored in response helper
}

// errorResponse is the standard error response format.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a standard error response with the given status code,
// error code, and human-readable message.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// ParseJSON decodes the request body as JSON into v, rejecting unknown
// fields. The contentTypeJSON middleware has already vetted the header, so
// any failure here is about the body itself and the decoder's error says
// what is wrong with it.
func ParseJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %v", err)
	}
	return nil
}

// mapError maps domain errors to HTTP responses. Retriable lock timeouts
// map to 503 so clients know the same request may succeed on retry.
func mapError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}
	var notPermittedErr *domain.OperationNotPermittedError
	if errors.As(err, &notPermittedErr) {
		WriteError(w, http.StatusConflict, "operation_not_permitted", notPermittedErr.Msg)
		return
	}
	var lockErr *domain.LockTimeoutError
	if errors.As(err, &lockErr) {
		w.Header().Set("Retry-After", "1")
		WriteError(w, http.StatusServiceUnavailable, "lock_timeout", lockErr.Error())
		return
	}
	var abortErr *domain.LockAbortedError
	if errors.As(err, &abortErr) {
		WriteError(w, http.StatusServiceUnavailable, "request_aborted", abortErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		WriteError(w, http.StatusNotFound, "customer_not_found", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrAssetNotFound):
		WriteError(w, http.StatusNotFound, "asset_not_found", err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance):
		WriteError(w, http.StatusConflict, "insufficient_balance", err.Error())
	case errors.Is(err, domain.ErrUnallowedAccess):
		WriteError(w, http.StatusForbidden, "unallowed_access", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
