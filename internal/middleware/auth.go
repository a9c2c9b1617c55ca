package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"shipsupply/internal/auth"
	"shipsupply/internal/i18n"

	"github.com/google/uuid"
)

// SessionChecker сообщает, не закрыта ли сессия (логаут удаляет её).
type SessionChecker interface {
	SessionActive(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

// Auth проверяет Bearer-токен и кладёт сессию в контекст запроса.
func Auth(issuer *auth.Issuer, sessions SessionChecker, defaultLocale string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				unauthorized(w, r, defaultLocale)
				return
			}

			s, err := issuer.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				unauthorized(w, r, defaultLocale)
				return
			}

			active, err := sessions.SessionActive(r.Context(), s.ID)
			if err != nil {
				log.Printf("session lookup failed: %v", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": i18n.T(i18n.Locale(r, defaultLocale), i18n.MsgInternal)})
				return
			}
			if !active {
				unauthorized(w, r, defaultLocale)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), s)))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, defaultLocale string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": i18n.T(i18n.Locale(r, defaultLocale), i18n.MsgUnauthorized)})
}
