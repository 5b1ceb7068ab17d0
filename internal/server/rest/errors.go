package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/dmitrijs2005/storjvault/internal/server/services"
)

type errorResponse struct {
	Error      string   `json:"error"`
	FailedKeys []string `json:"failedKeys,omitempty"`
}

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrorTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrorRangeNotSatisfiable):
		return http.StatusRequestedRangeNotSatisfiable
	case errors.Is(err, common.ErrorLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, common.ErrorUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the client-facing text for err. Internal errors never
// leak their details.
func publicMessage(err error, status int) string {
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		return "Internal server error"
	}
	if msg, ok := common.PublicMessage(err); ok {
		return msg
	}
	return http.StatusText(status)
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorResponse{Error: publicMessage(err, status)}

	var re *services.RangeError
	if errors.As(err, &re) {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", re.Size))
	}

	var be *services.BatchError
	if errors.As(err, &be) {
		body.Error = fmt.Sprintf("%d items could not be processed", len(be.Failed))
		body.FailedKeys = be.Failed
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err,
			"request_id", RequestIDFromContext(r.Context()))
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const maxJSONBody = 1 << 20

// decodeJSON reads a bounded JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return common.Errorf(common.ErrorTooLarge, "Request body too large")
		}
		return common.Errorf(common.ErrorValidation, "Invalid request body")
	}
	return nil
}
