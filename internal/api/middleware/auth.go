package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/placardhq/placard/internal/domain"
	"github.com/placardhq/placard/internal/service"
)

type contextKey string

const tenantContextKey contextKey = "tenant"

// TenantFromContext returns the authenticated tenant, or nil on
// unauthenticated routes.
func TenantFromContext(ctx context.Context) *domain.Tenant {
	t, _ := ctx.Value(tenantContextKey).(*domain.Tenant)
	return t
}

// APIKeyAuth authenticates bearer API keys. The key's non-secret prefix
// locates the tenant; the sha256 of the full key is then compared in
// constant time against the stored hash.
func APIKeyAuth(tenants domain.TenantStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}
			apiKey := parts[1]

			tenant, err := tenants.GetByKeyPrefix(r.Context(), service.KeyPrefix(apiKey))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			hash := service.HashAPIKey(apiKey)
			if subtle.ConstantTimeCompare([]byte(hash), []byte(tenant.APIKeyHash)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			ctx := context.WithValue(r.Context(), tenantContextKey, tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
