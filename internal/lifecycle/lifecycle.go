// Package lifecycle описывает машины состояний заказа и оплаты.
// Текущее состояние заказа выводится из журнала событий (Replay).
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"shipsupply/models"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbiddenActor    = errors.New("actor is not allowed to perform this transition")
)

// Порядок исполнения заказа. cancelled вне последовательности.
var orderSequence = []models.OrderStatus{
	models.OrderPending,
	models.OrderConfirmed,
	models.OrderInProgress,
	models.OrderShipped,
	models.OrderDelivered,
	models.OrderCompleted,
}

var paymentSequence = []models.PaymentStatus{
	models.PaymentPending,
	models.PaymentAwaitingConfirmation,
	models.PaymentPaid,
	models.PaymentRefunded,
}

func orderIndex(s models.OrderStatus) int {
	for i, v := range orderSequence {
		if v == s {
			return i
		}
	}
	return -1
}

func paymentIndex(s models.PaymentStatus) int {
	for i, v := range paymentSequence {
		if v == s {
			return i
		}
	}
	return -1
}

// CanTransition разрешает только шаг вперёд на одну позицию
// либо отмену из pending/confirmed.
func CanTransition(from, to models.OrderStatus) bool {
	if to == models.OrderCancelled {
		return from == models.OrderPending || from == models.OrderConfirmed
	}
	i, j := orderIndex(from), orderIndex(to)
	if i < 0 || j < 0 {
		return false
	}
	return j == i+1
}

func CanTransitionPayment(from, to models.PaymentStatus) bool {
	i, j := paymentIndex(from), paymentIndex(to)
	if i < 0 || j < 0 {
		return false
	}
	return j == i+1
}

// Next возвращает следующий статус исполнения или пустую строку для терминальных статусов.
func Next(s models.OrderStatus) models.OrderStatus {
	i := orderIndex(s)
	if i < 0 || i == len(orderSequence)-1 {
		return ""
	}
	return orderSequence[i+1]
}

// Actor - участник заказа, выполняющий переход
type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

func (a Actor) isShipowner(o *models.Order) bool { return a.UserID == o.ShipownerID }
func (a Actor) isSupplier(o *models.Order) bool  { return a.UserID == o.SupplierID }

// IsParty - администратор или одна из сторон заказа
func (a Actor) IsParty(o *models.Order) bool {
	return a.Role == models.RoleAdmin || a.isShipowner(o) || a.isSupplier(o)
}

// AuthorizeStatus проверяет, кто может перевести заказ в статус to.
func AuthorizeStatus(a Actor, o *models.Order, to models.OrderStatus) error {
	if a.Role == models.RoleAdmin {
		return nil
	}
	var ok bool
	switch to {
	case models.OrderConfirmed, models.OrderInProgress, models.OrderShipped:
		ok = a.isSupplier(o)
	case models.OrderDelivered, models.OrderCompleted:
		ok = a.isShipowner(o)
	case models.OrderCancelled:
		ok = a.isSupplier(o) || a.isShipowner(o)
	}
	if !ok {
		return ErrForbiddenActor
	}
	return nil
}

func AuthorizePayment(a Actor, o *models.Order, to models.PaymentStatus) error {
	if a.Role == models.RoleAdmin {
		return nil
	}
	var ok bool
	switch to {
	case models.PaymentAwaitingConfirmation:
		ok = a.isShipowner(o)
	case models.PaymentPaid:
		ok = a.isSupplier(o) || a.isShipowner(o)
	case models.PaymentRefunded:
		ok = a.isSupplier(o)
	}
	if !ok {
		return ErrForbiddenActor
	}
	return nil
}

// StatusEvent проверяет переход и строит событие журнала. Заказ не изменяется.
func StatusEvent(a Actor, o *models.Order, to models.OrderStatus, description string, now time.Time) (*models.OrderEvent, error) {
	if !to.Valid() || !CanTransition(o.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	if err := AuthorizeStatus(a, o, to); err != nil {
		return nil, err
	}
	if description == "" {
		description = DefaultDescription(models.EventStatus, string(to))
	}
	return &models.OrderEvent{
		OrderID:     o.ID,
		Kind:        models.EventStatus,
		Status:      string(to),
		Description: description,
		ActorID:     a.UserID,
		CreatedAt:   now,
	}, nil
}

func PaymentEvent(a Actor, o *models.Order, to models.PaymentStatus, description string, now time.Time) (*models.OrderEvent, error) {
	if !to.Valid() || !CanTransitionPayment(o.PaymentStatus, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.PaymentStatus, to)
	}
	if err := AuthorizePayment(a, o, to); err != nil {
		return nil, err
	}
	if description == "" {
		description = DefaultDescription(models.EventPayment, string(to))
	}
	return &models.OrderEvent{
		OrderID:     o.ID,
		Kind:        models.EventPayment,
		Status:      string(to),
		Description: description,
		ActorID:     a.UserID,
		CreatedAt:   now,
	}, nil
}

// Apply переносит событие на проекцию заказа.
func Apply(o *models.Order, ev *models.OrderEvent) {
	switch ev.Kind {
	case models.EventStatus:
		o.Status = models.OrderStatus(ev.Status)
	case models.EventPayment:
		o.PaymentStatus = models.PaymentStatus(ev.Status)
	}
	o.UpdatedAt = ev.CreatedAt
}

func DefaultDescription(kind models.EventKind, status string) string {
	switch kind {
	case models.EventCreated:
		return "Order created from accepted quotation"
	case models.EventPayment:
		switch models.PaymentStatus(status) {
		case models.PaymentAwaitingConfirmation:
			return "Payment sent, awaiting confirmation"
		case models.PaymentPaid:
			return "Payment received"
		case models.PaymentRefunded:
			return "Payment refunded"
		}
	case models.EventStatus:
		switch models.OrderStatus(status) {
		case models.OrderConfirmed:
			return "Order confirmed by supplier"
		case models.OrderInProgress:
			return "Order is being prepared"
		case models.OrderShipped:
			return "Order shipped"
		case models.OrderDelivered:
			return "Order delivered"
		case models.OrderCompleted:
			return "Order completed"
		case models.OrderCancelled:
			return "Order cancelled"
		}
	}
	return status
}
