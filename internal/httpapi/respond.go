package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mmynk/housesplit/internal/auth"
	"github.com/mmynk/housesplit/internal/calculator"
	"github.com/mmynk/housesplit/internal/money"
	"github.com/mmynk/housesplit/internal/service"
	"github.com/mmynk/housesplit/internal/storage"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks malformed request bodies and query parameters.
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors to HTTP status codes. Unexpected errors
// are logged and reported without detail.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, money.ErrInvalid),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, calculator.ErrInvalidSplit),
		errors.Is(err, calculator.ErrUnknownMember),
		errors.Is(err, calculator.ErrInvalidAmount),
		errors.Is(err, calculator.ErrSelfSettlement),
		errors.Is(err, calculator.ErrInvalidPeriod),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrEmailExists),
		errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a single JSON object from the request body, rejecting
// unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, money.ErrInvalid) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON object", errBadRequest)
	}
	return nil
}
