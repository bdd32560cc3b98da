package middleware

import (
	"net/http"
	"strings"

	"github.com/rescuelink/api/internal/ctxkeys"
	"github.com/rescuelink/api/internal/model"
)

// TokenVerifier resolves a bearer token into an identity.
type TokenVerifier interface {
	Verify(token string) (*model.Identity, error)
}

// Authenticate adds the caller's identity to the context when a bearer token is sent.
// Requests without a token pass through anonymously; a bad token is rejected.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized - malformed authorization header")
				return
			}

			identity, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized - invalid token")
				return
			}

			ctx := ctxkeys.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Identity(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized - no token provided")
			return
		}
		next.ServeHTTP(w, r)
	}
}
