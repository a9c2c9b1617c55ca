package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"shipsupply/db"
	"shipsupply/internal/feed"
	"shipsupply/internal/i18n"
	"shipsupply/internal/lifecycle"
	"shipsupply/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type createQuotationRequest struct {
	RFQID              string          `json:"rfqId" validate:"required,uuid"`
	Price              decimal.Decimal `json:"price"`
	Currency           string          `json:"currency" validate:"required,len=3,alpha"`
	DeliveryTime       string          `json:"deliveryTime" validate:"required,max=100"`
	DeliveryLocation   string          `json:"deliveryLocation" validate:"required,max=200"`
	Specifications     string          `json:"specifications" validate:"max=5000"`
	Notes              string          `json:"notes" validate:"max=2000"`
	EstimatedReadyDate *time.Time      `json:"estimatedReadyDate"`
}

// CreateQuotationHandler обрабатывает POST /api/quotation/create
func (h *Handler) CreateQuotationHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if s.Role != models.RoleSupplier {
		h.fail(w, r, http.StatusForbidden, i18n.MsgSupplierOnly)
		return
	}

	var req createQuotationRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !req.Price.IsPositive() {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgValidation, "price: gt=0")
		return
	}
	rfqID := uuid.MustParse(req.RFQID)

	rfq, err := h.Store.GetRFQ(r.Context(), rfqID)
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgRFQNotFound, "")
		return
	}
	if rfq.Status != models.RFQOpen {
		h.fail(w, r, http.StatusConflict, i18n.MsgRFQNotOpen)
		return
	}
	if !rfq.Deadline.After(h.now()) {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgDeadlinePassed)
		return
	}

	existing, err := h.Store.ListQuotations(r.Context(), db.QuotationFilter{
		RFQID:      &rfqID,
		SupplierID: &s.UserID,
		Status:     models.QuotationPending,
	})
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	if len(existing) > 0 {
		h.fail(w, r, http.StatusConflict, i18n.MsgDuplicateQuotation)
		return
	}

	supplier, err := h.Store.GetUser(r.Context(), s.UserID)
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgUserNotFound, "")
		return
	}

	q := &models.Quotation{
		RFQID:              rfqID,
		SupplierID:         supplier.ID,
		SupplierCompany:    supplier.CompanyName,
		Price:              req.Price,
		Currency:           strings.ToUpper(req.Currency),
		DeliveryTime:       req.DeliveryTime,
		DeliveryLocation:   req.DeliveryLocation,
		Specifications:     req.Specifications,
		Notes:              req.Notes,
		Status:             models.QuotationPending,
		EstimatedReadyDate: req.EstimatedReadyDate,
	}
	if err := h.Store.CreateQuotation(r.Context(), q); err != nil {
		// параллельная вставка второй ожидающей котировки ловится уникальным индексом
		if errors.Is(err, db.ErrConflict) && strings.Contains(err.Error(), "quotations_one_pending_idx") {
			h.fail(w, r, http.StatusConflict, i18n.MsgDuplicateQuotation)
			return
		}
		h.storageFail(w, r, err, i18n.MsgRFQNotFound, i18n.MsgRFQNotOpen)
		return
	}

	h.publish([]uuid.UUID{rfq.ShipownerID}, feed.EventQuotationNew, q)
	writeSuccess(w, http.StatusCreated, map[string]interface{}{"quotation": q})
}

// ListQuotationsHandler обрабатывает GET /api/quotation/list.
// С rfqId владелец RFQ видит все котировки по нему; поставщик всегда видит только свои.
func (h *Handler) ListQuotationsHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	params := parsePaginationParams(r)
	f := db.QuotationFilter{Page: params.page()}

	if st := r.URL.Query().Get("status"); st != "" {
		f.Status = models.QuotationStatus(st)
		if !f.Status.Valid() {
			h.fail(w, r, http.StatusBadRequest, i18n.MsgValidation, "status: oneof")
			return
		}
	}
	rfqID, err := optionalID(r.URL.Query().Get("rfqId"))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, i18n.MsgInvalidID, "rfqId")
		return
	}
	f.RFQID = rfqID

	switch s.Role {
	case models.RoleSupplier:
		f.SupplierID = &s.UserID
	case models.RoleShipowner:
		if rfqID == nil {
			h.fail(w, r, http.StatusBadRequest, i18n.MsgValidation, "rfqId: required")
			return
		}
		rfq, err := h.Store.GetRFQ(r.Context(), *rfqID)
		if err != nil {
			h.storageFail(w, r, err, i18n.MsgRFQNotFound, "")
			return
		}
		if rfq.ShipownerID != s.UserID {
			h.fail(w, r, http.StatusForbidden, i18n.MsgForbidden)
			return
		}
	}

	quotations, err := h.Store.ListQuotations(r.Context(), f)
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"quotations": quotations})
}

type quotationDecisionRequest struct {
	QuotationID string `json:"quotationId" validate:"required,uuid"`
}

// loadForDecision находит котировку и её RFQ и проверяет, что решение принимает владелец RFQ.
func (h *Handler) loadForDecision(w http.ResponseWriter, r *http.Request) (*models.Quotation, *models.RFQ, uuid.UUID, bool) {
	s, ok := h.session(w, r)
	if !ok {
		return nil, nil, uuid.Nil, false
	}
	var req quotationDecisionRequest
	if !h.decode(w, r, &req) {
		return nil, nil, uuid.Nil, false
	}

	q, err := h.Store.GetQuotation(r.Context(), uuid.MustParse(req.QuotationID))
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgQuotationNotFound, "")
		return nil, nil, uuid.Nil, false
	}
	rfq, err := h.Store.GetRFQ(r.Context(), q.RFQID)
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgRFQNotFound, "")
		return nil, nil, uuid.Nil, false
	}
	if rfq.ShipownerID != s.UserID {
		h.fail(w, r, http.StatusForbidden, i18n.MsgForbidden)
		return nil, nil, uuid.Nil, false
	}
	if q.Status != models.QuotationPending {
		h.fail(w, r, http.StatusConflict, i18n.MsgQuotationNotPending)
		return nil, nil, uuid.Nil, false
	}
	return q, rfq, s.UserID, true
}

// AcceptQuotationHandler обрабатывает POST /api/quotation/accept:
// котировка принимается, RFQ присуждается и создаётся ровно один заказ.
func (h *Handler) AcceptQuotationHandler(w http.ResponseWriter, r *http.Request) {
	q, rfq, actorID, ok := h.loadForDecision(w, r)
	if !ok {
		return
	}
	if rfq.Status != models.RFQOpen {
		h.fail(w, r, http.StatusConflict, i18n.MsgRFQNotOpen)
		return
	}

	order, ev, err := lifecycle.NewOrderFromQuotation(rfq, q, actorID, h.now())
	if err != nil {
		h.fail(w, r, http.StatusConflict, i18n.MsgQuotationNotPending)
		return
	}

	rejected, err := h.Store.AcceptQuotation(r.Context(), db.AcceptParams{
		QuotationID:    q.ID,
		RFQID:          rfq.ID,
		Order:          order,
		Event:          ev,
		RejectSiblings: h.Opts.RejectSiblingQuotations,
	})
	if errors.Is(err, db.ErrRFQNotOpen) {
		h.fail(w, r, http.StatusConflict, i18n.MsgRFQNotOpen)
		return
	}
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgQuotationNotFound, i18n.MsgQuotationNotPending)
		return
	}
	q.Status = models.QuotationAccepted

	h.publish([]uuid.UUID{order.ShipownerID, order.SupplierID}, feed.EventOrderCreated, order)
	h.publish([]uuid.UUID{q.SupplierID}, feed.EventQuotationUpdated, q)
	for i := range rejected {
		h.publish([]uuid.UUID{rejected[i].SupplierID}, feed.EventQuotationUpdated, rejected[i])
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"order":              order,
		"quotation":          q,
		"rejectedQuotations": len(rejected),
	})
}

// RejectQuotationHandler обрабатывает POST /api/quotation/reject. Заказ не создаётся.
func (h *Handler) RejectQuotationHandler(w http.ResponseWriter, r *http.Request) {
	q, _, _, ok := h.loadForDecision(w, r)
	if !ok {
		return
	}
	if err := h.Store.RejectQuotation(r.Context(), q.ID); err != nil {
		h.storageFail(w, r, err, i18n.MsgQuotationNotFound, i18n.MsgQuotationNotPending)
		return
	}
	q.Status = models.QuotationRejected

	h.publish([]uuid.UUID{q.SupplierID}, feed.EventQuotationUpdated, q)
	writeSuccess(w, http.StatusOK, map[string]interface{}{"quotation": q})
}
