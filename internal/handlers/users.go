package handlers

import (
	"errors"
	"net/http"
	"strings"

	"shipsupply/db"
	"shipsupply/internal/auth"
	"shipsupply/internal/catalog"
	"shipsupply/internal/i18n"
	"shipsupply/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type registerRequest struct {
	Email           string   `json:"email" validate:"required,email,max=254"`
	Password        string   `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string   `json:"confirmPassword" validate:"required"`
	Role            string   `json:"role" validate:"required,oneof=admin shipowner supplier"`
	CompanyName     string   `json:"companyName" validate:"required,max=200"`
	SupplierType    string   `json:"supplierType" validate:"omitempty,oneof=supplier service_provider"`
	Categories      []string `json:"categories" validate:"max=20"`
}

// RegisterHandler обрабатывает POST /api/users/create
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgInvalidJSON)
		return
	}
	// несовпадение паролей проверяется до всего остального, хранилище не вызывается
	if req.Password != req.ConfirmPassword {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgPasswordMismatch)
		return
	}
	if !h.check(w, r, &req) {
		return
	}

	role := models.Role(req.Role)
	if role == models.RoleAdmin && !h.requesterIsAdmin(r) {
		h.fail(w, r, http.StatusForbidden, i18n.MsgAdminOnly)
		return
	}

	u := &models.User{
		Email:       req.Email,
		Role:        role,
		CompanyName: strings.TrimSpace(req.CompanyName),
		Categories:  pq.StringArray{},
	}
	if role == models.RoleSupplier {
		if req.SupplierType == "" {
			h.fail(w, r, http.StatusBadRequest, i18n.MsgSupplierTypeRequired)
			return
		}
		st := models.SupplierType(req.SupplierType)
		u.SupplierType = &st
		for _, c := range req.Categories {
			if !catalog.ValidCategory(c) {
				h.fail(w, r, http.StatusBadRequest, i18n.MsgInvalidCategory)
				return
			}
		}
		u.Categories = pq.StringArray(req.Categories)
		if len(u.Categories) == 0 {
			u.Categories = pq.StringArray(catalog.DefaultsFor(st))
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	u.PasswordHash = hash

	if err := h.Store.CreateUser(r.Context(), u); err != nil {
		h.storageFail(w, r, err, "", i18n.MsgEmailTaken)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]interface{}{"user": u})
}

// requesterIsAdmin проверяет необязательный Bearer-токен на публичном маршруте
func (h *Handler) requesterIsAdmin(r *http.Request) bool {
	hdr := r.Header.Get("Authorization")
	if h.Issuer == nil || !strings.HasPrefix(hdr, "Bearer ") {
		return false
	}
	s, err := h.Issuer.Parse(strings.TrimPrefix(hdr, "Bearer "))
	if err != nil || s.Role != models.RoleAdmin {
		return false
	}
	active, err := h.Store.SessionActive(r.Context(), s.ID)
	return err == nil && active
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginHandler обрабатывает POST /api/auth/login: создаёт сессию и выдаёт токен
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, err := h.Store.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, db.ErrNotFound) {
		h.fail(w, r, http.StatusUnauthorized, i18n.MsgInvalidCredentials)
		return
	}
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		h.fail(w, r, http.StatusUnauthorized, i18n.MsgInvalidCredentials)
		return
	}

	now := h.now()
	sess := &models.Session{ID: uuid.New(), UserID: u.ID}
	token, exp, err := h.Issuer.Issue(sess.ID, u, now)
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	sess.ExpiresAt = exp
	if err := h.Store.CreateSession(r.Context(), sess); err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"token":     token,
		"expiresAt": exp,
		"user":      u,
	})
}

// LogoutHandler удаляет текущую сессию и закрывает её websocket-потоки;
// токен после этого не принимается
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := h.Store.DeleteSession(r.Context(), s.ID); err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	if h.Hub != nil {
		h.Hub.CloseSession(s.UserID, s.ID)
	}
	writeSuccess(w, http.StatusOK, nil)
}

// MeHandler возвращает профиль текущего пользователя
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	u, err := h.Store.GetUser(r.Context(), s.UserID)
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgUserNotFound, "")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"user": u})
}

// ListUsersHandler - список пользователей, только для администратора
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if s.Role != models.RoleAdmin {
		h.fail(w, r, http.StatusForbidden, i18n.MsgForbidden)
		return
	}
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"users": users})
}

// AutoPopulateHandler обрабатывает POST /api/supplier/auto-populate:
// пустой список категорий поставщика заполняется по его типу.
func (h *Handler) AutoPopulateHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if s.Role != models.RoleSupplier {
		h.fail(w, r, http.StatusForbidden, i18n.MsgSupplierOnly)
		return
	}

	u, err := h.Store.GetUser(r.Context(), s.UserID)
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgUserNotFound, "")
		return
	}
	if u.SupplierType == nil {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgSupplierTypeRequired)
		return
	}
	if len(u.Categories) > 0 {
		writeSuccess(w, http.StatusOK, map[string]interface{}{"categories": u.Categories, "updated": false})
		return
	}

	defaults := catalog.DefaultsFor(*u.SupplierType)
	if err := h.Store.UpdateUserCategories(r.Context(), u.ID, defaults); err != nil {
		h.storageFail(w, r, err, i18n.MsgUserNotFound, "")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"categories": defaults, "updated": true})
}
