package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"shipsupply/db"
	"shipsupply/internal/auth"
	"shipsupply/internal/feed"
	"shipsupply/internal/i18n"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxBodySize = 1048576

type PaginationParams struct {
	Limit  int
	Offset int
}

// parsePaginationParams парсит limit и offset из query, с дефолтами и ограничениями
func parsePaginationParams(r *http.Request) PaginationParams {
	var params PaginationParams
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	params.Limit = 20 // дефолт
	params.Offset = 0

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			params.Limit = l
		}
	}
	if offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			params.Offset = o
		}
	}
	return params
}

func (p PaginationParams) page() db.Page {
	return db.Page{Limit: p.Limit, Offset: p.Offset}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeSuccess отдаёт {"success": true, ...payload}
func writeSuccess(w http.ResponseWriter, status int, payload map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, status, body)
}

func (h *Handler) locale(r *http.Request) string {
	return i18n.Locale(r, h.Opts.DefaultLocale)
}

// fail отдаёт {"error": "..."} на языке запроса
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, key string, args ...any) {
	writeJSON(w, status, map[string]string{"error": i18n.T(h.locale(r), key, args...)})
}

// storageFail переводит ошибку хранилища в ответ: ErrNotFound -> 404 notFoundKey,
// ErrConflict -> 409 conflictKey, остальное -> 500 с записью в лог.
func (h *Handler) storageFail(w http.ResponseWriter, r *http.Request, err error, notFoundKey, conflictKey string) {
	switch {
	case errors.Is(err, db.ErrNotFound) && notFoundKey != "":
		h.fail(w, r, http.StatusNotFound, notFoundKey)
	case errors.Is(err, db.ErrConflict) && conflictKey != "":
		h.fail(w, r, http.StatusConflict, conflictKey)
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		h.fail(w, r, http.StatusInternalServerError, i18n.MsgInternal)
	}
}

// decode читает JSON-тело и проверяет validate-теги. При ошибке ответ уже отправлен.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	// Ограничение размера тела, чтобы избежать DoS
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := decodeBody(r, dst); err != nil {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgInvalidJSON)
		return false
	}
	return h.check(w, r, dst)
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := h.validate.Struct(v); err != nil {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgValidation, describe(err))
		return false
	}
	return true
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// urlID разбирает uuid из параметра пути
func (h *Handler) urlID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgInvalidID, name)
		return uuid.Nil, false
	}
	return id, true
}

// optionalID разбирает необязательный uuid из тела или query
func optionalID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// session достаёт сессию, положенную middleware.Auth
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*auth.Session, bool) {
	s, ok := auth.FromContext(r.Context())
	if !ok {
		h.fail(w, r, http.StatusUnauthorized, i18n.MsgUnauthorized)
		return nil, false
	}
	return s, true
}

func (h *Handler) publish(userIDs []uuid.UUID, typ string, data interface{}) {
	if h.Feed == nil {
		return
	}
	h.Feed.Publish(userIDs, feed.Event{Type: typ, Data: data})
}
