package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

const (
	msgInternal     = "An unexpected error occurred"
	msgUnavailable  = "Service temporarily unavailable, please retry"
	msgBadBody      = "Invalid request body"
	msgUnauthorized = "Unauthorized"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeSuccess wraps data in the success envelope.
func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dto.Success(data))
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.Error(message))
}

// writeDomainError maps err to a status and a client-safe message.
func writeDomainError(w http.ResponseWriter, err error) {
	status, message := mapDomainError(err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	writeError(w, status, message)
}

// errorStatuses maps known errors to HTTP statuses. The client sees the
// sentinel's message, never the wrapped detail.
var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrMissingArgument, http.StatusBadRequest},
	{domain.ErrSelfTransfer, http.StatusBadRequest},
	{domain.ErrInvalidAmount, http.StatusBadRequest},
	{domain.ErrInvalidPhone, http.StatusBadRequest},
	{domain.ErrInvalidName, http.StatusBadRequest},
	{domain.ErrInvalidPin, http.StatusBadRequest},
	{domain.ErrInsufficientFunds, http.StatusBadRequest},
	{domain.ErrRecipientNotFound, http.StatusNotFound},
	{domain.ErrAccountNotFound, http.StatusNotFound},
	{domain.ErrEntryNotFound, http.StatusNotFound},
	{domain.ErrNotificationNotFound, http.StatusNotFound},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrExpiredToken, http.StatusUnauthorized},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrInsufficientRole, http.StatusForbidden},
	{domain.ErrPhoneTaken, http.StatusConflict},
	{usecase.ErrInconsistentLedger, http.StatusConflict},
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}

	if domain.IsRetryable(err) {
		return http.StatusServiceUnavailable, msgUnavailable
	}

	return http.StatusInternalServerError, msgInternal
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeDecodeError answers a body that failed to decode. Amount errors keep
// their domain meaning.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidAmount) {
		writeError(w, http.StatusBadRequest, domain.ErrInvalidAmount.Error())
		return
	}
	writeError(w, http.StatusBadRequest, msgBadBody)
}

// requestMeta collects audit metadata from the request.
func requestMeta(r *http.Request) usecase.RequestMeta {
	return usecase.RequestMeta{
		SourceAddress: r.RemoteAddr,
		RequestID:     chimiddleware.GetReqID(r.Context()),
	}
}

// principal returns the authenticated caller or writes 401.
func principal(w http.ResponseWriter, r *http.Request) (*domain.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
	}
	return p, ok
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
