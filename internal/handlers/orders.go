package handlers

import (
	"errors"
	"net/http"

	"shipsupply/db"
	"shipsupply/internal/feed"
	"shipsupply/internal/i18n"
	"shipsupply/internal/lifecycle"
	"shipsupply/models"

	"github.com/google/uuid"
)

// ListOrdersHandler обрабатывает GET /api/order/list, заказы своей стороны
func (h *Handler) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	params := parsePaginationParams(r)
	f := db.OrderFilter{Page: params.page()}

	if st := r.URL.Query().Get("status"); st != "" {
		f.Status = models.OrderStatus(st)
		if !f.Status.Valid() {
			h.fail(w, r, http.StatusBadRequest, i18n.MsgValidation, "status: oneof")
			return
		}
	}
	switch s.Role {
	case models.RoleShipowner:
		f.ShipownerID = &s.UserID
	case models.RoleSupplier:
		f.SupplierID = &s.UserID
	}

	orders, err := h.Store.ListOrders(r.Context(), f)
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// loadOrder находит заказ и проверяет, что запрашивающий - его сторона или администратор
func (h *Handler) loadOrder(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*models.Order, lifecycle.Actor, bool) {
	s, ok := h.session(w, r)
	if !ok {
		return nil, lifecycle.Actor{}, false
	}
	actor := lifecycle.Actor{UserID: s.UserID, Role: s.Role}

	o, err := h.Store.GetOrder(r.Context(), id)
	if err != nil {
		h.storageFail(w, r, err, i18n.MsgOrderNotFound, "")
		return nil, actor, false
	}
	if !actor.IsParty(o) {
		h.fail(w, r, http.StatusForbidden, i18n.MsgForbidden)
		return nil, actor, false
	}
	return o, actor, true
}

// GetOrderHandler обрабатывает GET /api/order/{orderId}
func (h *Handler) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r, "orderId")
	if !ok {
		return
	}
	o, _, ok := h.loadOrder(w, r, id)
	if !ok {
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"order": o})
}

// OrderTimelineHandler обрабатывает GET /api/order/{orderId}/timeline:
// журнал событий и состояние, восстановленное по нему.
func (h *Handler) OrderTimelineHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r, "orderId")
	if !ok {
		return
	}
	o, _, ok := h.loadOrder(w, r, id)
	if !ok {
		return
	}

	events, err := h.Store.ListOrderEvents(r.Context(), o.ID)
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}
	status, payment, err := lifecycle.Replay(events)
	if err != nil {
		h.storageFail(w, r, err, "", "")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"orderId":       o.ID,
		"status":        status,
		"paymentStatus": payment,
		"consistent":    status == o.Status && payment == o.PaymentStatus,
		"timeline":      lifecycle.Timeline(events),
	})
}

type updateOrderRequest struct {
	OrderID       string `json:"orderId" validate:"required,uuid"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	Description   string `json:"description" validate:"max=500"`
	Version       *int   `json:"version" validate:"omitempty,min=1"`
}

// UpdateOrderStatusHandler обрабатывает POST /api/order/update-status
func (h *Handler) UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	h.updateOrder(w, r, models.EventStatus)
}

// UpdatePaymentStatusHandler обрабатывает POST /api/order/update-payment
func (h *Handler) UpdatePaymentStatusHandler(w http.ResponseWriter, r *http.Request) {
	h.updateOrder(w, r, models.EventPayment)
}

// updateOrder проверяет переход, дописывает событие в журнал и обновляет заказ
// при совпадении версии.
func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request, kind models.EventKind) {
	var req updateOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	o, actor, ok := h.loadOrder(w, r, uuid.MustParse(req.OrderID))
	if !ok {
		return
	}
	if req.Version != nil && *req.Version != o.Version {
		h.fail(w, r, http.StatusConflict, i18n.MsgVersionConflict)
		return
	}

	var (
		ev       *models.OrderEvent
		err      error
		from, to string
	)
	switch kind {
	case models.EventStatus:
		target := models.OrderStatus(req.Status)
		if !target.Valid() {
			h.fail(w, r, http.StatusBadRequest, i18n.MsgValidation, "status: oneof")
			return
		}
		from, to = string(o.Status), req.Status
		ev, err = lifecycle.StatusEvent(actor, o, target, req.Description, h.now())
	default:
		target := models.PaymentStatus(req.PaymentStatus)
		if !target.Valid() {
			h.fail(w, r, http.StatusBadRequest, i18n.MsgValidation, "paymentStatus: oneof")
			return
		}
		from, to = string(o.PaymentStatus), req.PaymentStatus
		ev, err = lifecycle.PaymentEvent(actor, o, target, req.Description, h.now())
	}
	switch {
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		h.fail(w, r, http.StatusConflict, i18n.MsgInvalidTransition, from, to)
		return
	case errors.Is(err, lifecycle.ErrForbiddenActor):
		h.fail(w, r, http.StatusForbidden, i18n.MsgForbidden)
		return
	case err != nil:
		h.storageFail(w, r, err, "", "")
		return
	}

	expected := o.Version
	lifecycle.Apply(o, ev)
	if err := h.Store.ApplyOrderEvent(r.Context(), o, expected, ev); err != nil {
		h.storageFail(w, r, err, i18n.MsgOrderNotFound, i18n.MsgVersionConflict)
		return
	}

	h.publish([]uuid.UUID{o.ShipownerID, o.SupplierID}, feed.EventOrderUpdated, o)
	writeSuccess(w, http.StatusOK, map[string]interface{}{"order": o, "event": ev})
}
