package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"shipsupply/models"

	"github.com/google/uuid"
)

var ErrQuotationNotPending = errors.New("quotation is not pending")

// NewOrderFromQuotation строит заказ по принятой котировке и первое событие журнала.
func NewOrderFromQuotation(rfq *models.RFQ, q *models.Quotation, actorID uuid.UUID, now time.Time) (*models.Order, *models.OrderEvent, error) {
	if q.Status != models.QuotationPending {
		return nil, nil, ErrQuotationNotPending
	}
	if q.RFQID != rfq.ID {
		return nil, nil, fmt.Errorf("quotation %s does not belong to rfq %s", q.ID, rfq.ID)
	}
	o := &models.Order{
		ID:                 uuid.New(),
		RFQID:              rfq.ID,
		QuotationID:        q.ID,
		ShipownerID:        rfq.ShipownerID,
		ShipownerCompany:   rfq.ShipownerName,
		SupplierID:         q.SupplierID,
		SupplierCompany:    q.SupplierCompany,
		Title:              rfq.Title,
		Amount:             q.Price,
		Currency:           q.Currency,
		DeliveryTime:       q.DeliveryTime,
		DeliveryLocation:   q.DeliveryLocation,
		Status:             models.OrderPending,
		PaymentStatus:      models.PaymentPending,
		EstimatedReadyDate: q.EstimatedReadyDate,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	ev := &models.OrderEvent{
		OrderID:     o.ID,
		Seq:         1,
		Kind:        models.EventCreated,
		Status:      string(models.OrderPending),
		Description: DefaultDescription(models.EventCreated, ""),
		ActorID:     actorID,
		CreatedAt:   now,
	}
	return o, ev, nil
}

// Replay восстанавливает состояние заказа по журналу, проверяя каждый переход.
func Replay(events []models.OrderEvent) (models.OrderStatus, models.PaymentStatus, error) {
	if len(events) == 0 || events[0].Kind != models.EventCreated {
		return "", "", fmt.Errorf("%w: log must start with a creation event", ErrInvalidTransition)
	}
	status, payment := models.OrderPending, models.PaymentPending
	for i, ev := range events[1:] {
		switch ev.Kind {
		case models.EventStatus:
			to := models.OrderStatus(ev.Status)
			if !CanTransition(status, to) {
				return "", "", fmt.Errorf("%w at event %d: %s -> %s", ErrInvalidTransition, i+2, status, to)
			}
			status = to
		case models.EventPayment:
			to := models.PaymentStatus(ev.Status)
			if !CanTransitionPayment(payment, to) {
				return "", "", fmt.Errorf("%w at event %d: %s -> %s", ErrInvalidTransition, i+2, payment, to)
			}
			payment = to
		default:
			return "", "", fmt.Errorf("%w at event %d: unexpected kind %q", ErrInvalidTransition, i+2, ev.Kind)
		}
	}
	return status, payment, nil
}

// TimelineEntry - элемент хронологии заказа для клиента
type TimelineEntry struct {
	Kind        models.EventKind `json:"kind"`
	Status      string           `json:"status"`
	Timestamp   time.Time        `json:"timestamp"`
	Description string           `json:"description,omitempty"`
}

func Timeline(events []models.OrderEvent) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(events))
	for _, ev := range events {
		out = append(out, TimelineEntry{
			Kind:        ev.Kind,
			Status:      ev.Status,
			Timestamp:   ev.CreatedAt,
			Description: ev.Description,
		})
	}
	return out
}
