package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/thehfhotel/loyalty-backend/internal/api/response"
	"github.com/thehfhotel/loyalty-backend/internal/auth"
	"github.com/thehfhotel/loyalty-backend/internal/metrics"
)

const identityKey contextKey = "identity"

// Auth is middleware that extracts the X-API-Key header and resolves it to an
// Identity via the auth service. Missing or invalid keys return 401.
//
// When the resolved credential is customer-bound, onCustomer is invoked with
// that customer's id before the handler runs; the loyalty program uses this
// to enroll customers on first contact. A nil hook is allowed.
func Auth(authService *auth.Service, onCustomer func(ctx context.Context, customerID uuid.UUID)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			rawKey := r.Header.Get("X-API-Key")
			if rawKey == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_key").Inc()
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
				return
			}

			identity, err := authService.Authenticate(r.Context(), rawKey)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidKey) {
					metrics.AuthRejectionsTotal.WithLabelValues("invalid_key").Inc()
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or revoked API key", requestID)
					return
				}
				response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)

			if onCustomer != nil && identity.CustomerID != nil {
				onCustomer(ctx, *identity.CustomerID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the authenticated Identity from the request context.
func GetIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return id
	}
	return nil
}

// WithIdentity returns a context carrying the given identity. Intended for
// handler tests that bypass the Auth middleware.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
