package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const requestIDHeader = common.RequestIDHeaderName

// requestID keeps a well-formed incoming X-Request-ID or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if len(id) == 0 || len(id) > 128 || strings.ContainsAny(id, "\r\n") {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func cors(allowOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowOrigin != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allowOrigin)
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Range, X-Request-ID")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Expose-Headers", "Content-Disposition, Content-Range, Accept-Ranges, X-Request-ID")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog logs every request and feeds the HTTP metrics.
func (h *handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		h.metrics.ObserveRequest(r.Method, route, status, d)
		h.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// authenticate requires a bearer token and puts its vault prefix into the
// request context.
func (h *handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get(common.AuthorizationHeaderName))
		if token == "" {
			h.metrics.AuthFailures.WithLabelValues("missing_token").Inc()
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Authentication token required."})
			return
		}

		prefix, err := h.vaults.Verify(token)
		if err != nil {
			reason := "invalid_token"
			if errors.Is(err, common.ErrTokenExpired) {
				reason = "expired_token"
			}
			h.metrics.AuthFailures.WithLabelValues(reason).Inc()
			h.logger.Debug(r.Context(), "token rejected", "error", err)
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "Invalid or expired token."})
			return
		}

		next.ServeHTTP(w, r.WithContext(withVaultPrefix(r.Context(), prefix)))
	})
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}
