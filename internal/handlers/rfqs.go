package handlers

import (
	"net/http"
	"strings"
	"time"

	"shipsupply/db"
	"shipsupply/internal/catalog"
	"shipsupply/internal/i18n"
	"shipsupply/models"

	"github.com/google/uuid"
)

type createRFQRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required,max=5000"`
	Category    string    `json:"category" validate:"required"`
	Subcategory string    `json:"subcategory"`
	VesselName  *string   `json:"vesselName" validate:"omitempty,max=100"`
	VesselType  *string   `json:"vesselType" validate:"omitempty,max=100"`
	VesselIMO   *string   `json:"vesselImo" validate:"omitempty,numeric,len=7"`
	Deadline    time.Time `json:"deadline" validate:"required"`
}

// CreateRFQHandler обрабатывает POST /api/rfq/create
func (h *Handler) CreateRFQHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if s.Role != models.RoleShipowner {
		h.fail(w, r, http.StatusForbidden, i18n.MsgShipownerOnly)
		return
	}

	var req createRFQRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !catalog.ValidCategory(req.Category) || !catalog.ValidSubcategory(req.Category, req.Subcategory) {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgInvalidCategory)
		return
	}
	if !req.Deadline.After(h.now()) {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgDeadlinePassed)
		return
	}

	owner, err := h.Store.GetUser(r.Context(), s.UserID)
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgUserNotFound, "")
		return
	}

	rfq := &models.RFQ{
		ShipownerID:   owner.ID,
		ShipownerName: owner.CompanyName,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		VesselName:    req.VesselName,
		VesselType:    req.VesselType,
		VesselIMO:     req.VesselIMO,
		Deadline:      req.Deadline,
		Status:        models.RFQOpen,
	}
	if err := h.Store.CreateRFQ(r.Context(), rfq); err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]interface{}{"rfq": rfq})
}

// ListRFQsHandler обрабатывает GET /api/rfq/list.
// Судовладелец видит свои RFQ, поставщик - открытые RFQ своих категорий, администратор - все.
func (h *Handler) ListRFQsHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	params := parsePaginationParams(r)
	f := db.RFQFilter{Page: params.page()}

	if st := r.URL.Query().Get("status"); st != "" {
		status := models.RFQStatus(st)
		if !status.Valid() {
			h.fail(w, r, http.StatusBadRequest, i18n.MsgValidation, "status: oneof")
			return
		}
		f.Statuses = []models.RFQStatus{status}
	}
	if c := r.URL.Query().Get("category"); c != "" {
		if !catalog.ValidCategory(c) {
			h.fail(w, r, http.StatusBadRequest, i18n.MsgInvalidCategory)
			return
		}
		f.Categories = []string{c}
	}

	switch s.Role {
	case models.RoleShipowner:
		f.ShipownerID = &s.UserID
	case models.RoleSupplier:
		f.Statuses = []models.RFQStatus{models.RFQOpen}
		if len(f.Categories) == 0 {
			u, err := h.Store.GetUser(r.Context(), s.UserID)
			if err != nil {
				h.storageFail(w, r, err, i18n.MsgUserNotFound, "")
				return
			}
			if len(u.Categories) == 0 {
				writeSuccess(w, http.StatusOK, map[string]interface{}{"rfqs": []models.RFQ{}})
				return
			}
			f.Categories = u.Categories
		}
	}

	rfqs, err := h.Store.ListRFQs(r.Context(), f)
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"rfqs": rfqs})
}

// GetRFQHandler обрабатывает GET /api/rfq/{rfqId}
func (h *Handler) GetRFQHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	id, ok := h.urlID(w, r, "rfqId")
	if !ok {
		return
	}
	rfq, err := h.Store.GetRFQ(r.Context(), id)
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgRFQNotFound, "")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"rfq": rfq})
}

type closeRFQRequest struct {
	RFQID string `json:"rfqId" validate:"required,uuid"`
}

// CloseRFQHandler обрабатывает POST /api/rfq/close: open -> closed, только владелец
func (h *Handler) CloseRFQHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req closeRFQRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := uuid.MustParse(req.RFQID)

	rfq, err := h.Store.GetRFQ(r.Context(), id)
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgRFQNotFound, "")
		return
	}
	if rfq.ShipownerID != s.UserID && s.Role != models.RoleAdmin {
		h.fail(w, r, http.StatusForbidden, i18n.MsgForbidden)
		return
	}
	if rfq.Status != models.RFQOpen {
		h.fail(w, r, http.StatusConflict, i18n.MsgRFQNotOpen)
		return
	}
	if err := h.Store.UpdateRFQStatus(r.Context(), id, models.RFQOpen, models.RFQClosed); err != nil {
		h.storageFail(w, r, err, i18n.MsgRFQNotFound, i18n.MsgRFQNotOpen)
		return
	}
	rfq.Status = models.RFQClosed
	writeSuccess(w, http.StatusOK, map[string]interface{}{"rfq": rfq})
}
