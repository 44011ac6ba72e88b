package middleware

import "net/http"

type contextKey string

// MerchantIDKey carries the signed-in merchant's id through the request
// context. Set by the session middleware, read by handlers and RequireAuth.
const MerchantIDKey contextKey = "merchant_id"

// MerchantID returns the merchant id from the context, empty when anonymous.
func MerchantID(r *http.Request) string {
	id, _ := r.Context().Value(MerchantIDKey).(string)
	return id
}

// RequireAuth rejects requests without a merchant in the context.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if MerchantID(r) == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
