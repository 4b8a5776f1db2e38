package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
)

type ctxKey string

const ActorIDKey ctxKey = "actorID"

// TokenFinder resolves a plain bearer token to its stored record.
type TokenFinder interface {
	FindByPlainToken(ctx context.Context, plainToken string) (*domain.PersonalAccessToken, error)
}

// TokenMiddleware authenticates requests via the Authorization header, or
// the token query parameter for websocket upgrades, and stores the actor id
// in the request context.
func TokenMiddleware(tokens TokenFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var pat *domain.PersonalAccessToken

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				plainToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
				if plainToken != "" {
					if p, err := tokens.FindByPlainToken(r.Context(), plainToken); err == nil {
						pat = p
					}
				}
			}

			if pat == nil {
				if token := r.URL.Query().Get("token"); token != "" {
					if p, err := tokens.FindByPlainToken(r.Context(), token); err == nil {
						pat = p
					}
				}
			}

			if pat == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if pat.ExpiresAt != nil && pat.ExpiresAt.Before(time.Now()) {
				http.Error(w, "Token expired", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ActorIDKey, pat.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetActorID(ctx context.Context) (int64, error) {
	actorID, ok := ctx.Value(ActorIDKey).(int64)
	if !ok {
		return 0, errors.New("actor id not found in context")
	}
	return actorID, nil
}
