package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/vmalakhov/banksettle/pkg/utils"
)

type ContextKey string

const UserIDKey ContextKey = "userID"

// TokenResolver maps an opaque bearer token to a user id. Expired or unknown
// tokens return an error.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (int, error)
}

func Middleware(sessions TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			userID, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
