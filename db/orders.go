package db

import (
	"context"
	"fmt"
	"strings"

	"shipsupply/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Order (Заказ)

type OrderFilter struct {
	ShipownerID *uuid.UUID
	SupplierID  *uuid.UUID
	Status      models.OrderStatus
	Page
}

func insertOrder(ctx context.Context, tx *sqlx.Tx, o *models.Order) error {
	query := `
        INSERT INTO orders
            (id, rfq_id, quotation_id, shipowner_id, shipowner_company, supplier_id, supplier_company,
             title, amount, currency, delivery_time, delivery_location, status, payment_status,
             expected_delivery_date, estimated_ready_date, version, created_at, updated_at)
        VALUES
            (:id, :rfq_id, :quotation_id, :shipowner_id, :shipowner_company, :supplier_id, :supplier_company,
             :title, :amount, :currency, :delivery_time, :delivery_location, :status, :payment_status,
             :expected_delivery_date, :estimated_ready_date, :version, :created_at, :updated_at)`
	_, err := tx.NamedExecContext(ctx, query, o)
	return wrapErr(err, "create order")
}

func insertEvent(ctx context.Context, tx *sqlx.Tx, ev *models.OrderEvent) error {
	query := `
        INSERT INTO order_events (order_id, seq, kind, status, description, actor_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`
	err := tx.QueryRowContext(ctx, query,
		ev.OrderID, ev.Seq, ev.Kind, ev.Status, ev.Description, ev.ActorID, ev.CreatedAt).
		Scan(&ev.ID)
	return wrapErr(err, "append order event")
}

func (s *Storage) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o := &models.Order{}
	err := s.db.GetContext(ctx, o, `SELECT * FROM orders WHERE id=$1`, id)
	if err != nil {
		return nil, wrapErr(err, "get order")
	}
	return o, nil
}

func (s *Storage) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.ShipownerID != nil {
		args = append(args, *f.ShipownerID)
		where = append(where, fmt.Sprintf("shipowner_id = $%d", len(args)))
	}
	if f.SupplierID != nil {
		args = append(args, *f.SupplierID)
		where = append(where, fmt.Sprintf("supplier_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := "SELECT * FROM orders"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	orders := []models.Order{}
	if err := s.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, wrapErr(err, "list orders")
	}
	return orders, nil
}

func (s *Storage) ListOrderEvents(ctx context.Context, orderID uuid.UUID) ([]models.OrderEvent, error) {
	events := []models.OrderEvent{}
	err := s.db.SelectContext(ctx, &events,
		`SELECT * FROM order_events WHERE order_id=$1 ORDER BY seq ASC`, orderID)
	return events, wrapErr(err, "list order events")
}

// ApplyOrderEvent добавляет событие в журнал и обновляет проекцию заказа,
// если версия заказа в БД совпадает с expectedVersion. Иначе ErrConflict.
// o должен уже содержать новое состояние; версия увеличивается здесь.
func (s *Storage) ApplyOrderEvent(ctx context.Context, o *models.Order, expectedVersion int, ev *models.OrderEvent) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
            UPDATE orders
            SET status=$1, payment_status=$2, version=version+1, updated_at=$3
            WHERE id=$4 AND version=$5`,
			o.Status, o.PaymentStatus, ev.CreatedAt, o.ID, expectedVersion)
		if err != nil {
			return wrapErr(err, "update order")
		}
		if err := expectOne(res, "order version mismatch"); err != nil {
			return err
		}

		err = tx.GetContext(ctx, &ev.Seq,
			`SELECT COALESCE(MAX(seq), 0) + 1 FROM order_events WHERE order_id=$1`, o.ID)
		if err != nil {
			return wrapErr(err, "next event seq")
		}
		if err := insertEvent(ctx, tx, ev); err != nil {
			return err
		}
		o.Version = expectedVersion + 1
		return nil
	})
}
