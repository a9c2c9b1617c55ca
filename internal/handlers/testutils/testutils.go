package testutils

import (
	"context"
	"net/http"

	"shipsupply/internal/auth"
	"shipsupply/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// WithChiURLParams подставляет параметры пути в контекст chi запроса для тестов.
// Существующие параметры маршрута сохраняются.
func WithChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx, ok := req.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || chiCtx == nil {
		chiCtx = chi.NewRouteContext()
	}
	for k, v := range params {
		chiCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

// WithSession кладёт в запрос сессию, как это делает middleware.Auth после проверки токена.
func WithSession(req *http.Request, userID uuid.UUID, role models.Role) *http.Request {
	return WithSessionID(req, uuid.New(), userID, role)
}

// WithSessionID - как WithSession, но с заданным id сессии.
func WithSessionID(req *http.Request, sessionID, userID uuid.UUID, role models.Role) *http.Request {
	s := &auth.Session{ID: sessionID, UserID: userID, Role: role}
	return req.WithContext(auth.WithSession(req.Context(), s))
}
