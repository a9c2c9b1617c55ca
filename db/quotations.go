package db

import (
	"context"
	"fmt"
	"strings"

	"shipsupply/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Quotation (Котировка)

type QuotationFilter struct {
	RFQID      *uuid.UUID
	SupplierID *uuid.UUID
	Status     models.QuotationStatus
	Page
}

// CreateQuotation сохраняет котировку и увеличивает счётчик котировок RFQ.
// Если RFQ уже не открыт, возвращается ErrRFQNotOpen.
func (s *Storage) CreateQuotation(ctx context.Context, q *models.Quotation) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE rfqs SET quotation_count = quotation_count + 1 WHERE id=$1 AND status='open'`, q.RFQID)
		if err != nil {
			return wrapErr(err, "bump quotation count")
		}
		if err := expectOneOr(res, "bump quotation count", ErrRFQNotOpen); err != nil {
			return err
		}

		query := `
            INSERT INTO quotations
                (id, rfq_id, supplier_id, supplier_company, price, currency, delivery_time,
                 delivery_location, specifications, notes, status, estimated_ready_date)
            VALUES
                ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
            RETURNING created_at`
		err = tx.QueryRowContext(ctx, query,
			q.ID, q.RFQID, q.SupplierID, q.SupplierCompany, q.Price, q.Currency, q.DeliveryTime,
			q.DeliveryLocation, q.Specifications, q.Notes, q.Status, q.EstimatedReadyDate).
			Scan(&q.CreatedAt)
		return wrapErr(err, "create quotation")
	})
}

func (s *Storage) GetQuotation(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	q := &models.Quotation{}
	err := s.db.GetContext(ctx, q, `SELECT * FROM quotations WHERE id=$1`, id)
	if err != nil {
		return nil, wrapErr(err, "get quotation")
	}
	return q, nil
}

func (s *Storage) ListQuotations(ctx context.Context, f QuotationFilter) ([]models.Quotation, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.RFQID != nil {
		args = append(args, *f.RFQID)
		where = append(where, fmt.Sprintf("rfq_id = $%d", len(args)))
	}
	if f.SupplierID != nil {
		args = append(args, *f.SupplierID)
		where = append(where, fmt.Sprintf("supplier_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := "SELECT * FROM quotations"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	quotations := []models.Quotation{}
	if err := s.db.SelectContext(ctx, &quotations, query, args...); err != nil {
		return nil, wrapErr(err, "list quotations")
	}
	return quotations, nil
}

// AcceptParams - всё, что нужно для атомарного принятия котировки
type AcceptParams struct {
	QuotationID    uuid.UUID
	RFQID          uuid.UUID
	Order          *models.Order
	Event          *models.OrderEvent
	RejectSiblings bool
}

// AcceptQuotation в одной транзакции: котировка -> accepted, RFQ -> awarded,
// остальные ожидающие котировки -> rejected (если включено), создаёт заказ и первое событие.
// Возвращает отклонённые котировки.
func (s *Storage) AcceptQuotation(ctx context.Context, p AcceptParams) ([]models.Quotation, error) {
	var rejected []models.Quotation
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var status models.QuotationStatus
		err := tx.GetContext(ctx, &status,
			`SELECT status FROM quotations WHERE id=$1 FOR UPDATE`, p.QuotationID)
		if err != nil {
			return wrapErr(err, "lock quotation")
		}
		if status != models.QuotationPending {
			return fmt.Errorf("quotation is %s: %w", status, ErrConflict)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE quotations SET status='accepted' WHERE id=$1`, p.QuotationID); err != nil {
			return wrapErr(err, "accept quotation")
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE rfqs SET status='awarded', awarded_at=NOW() WHERE id=$1 AND status='open'`, p.RFQID)
		if err != nil {
			return wrapErr(err, "award rfq")
		}
		if err := expectOneOr(res, "award rfq", ErrRFQNotOpen); err != nil {
			return err
		}

		if p.RejectSiblings {
			rejected = []models.Quotation{}
			err = tx.SelectContext(ctx, &rejected, `
                UPDATE quotations SET status='rejected'
                WHERE rfq_id=$1 AND id<>$2 AND status='pending'
                RETURNING *`, p.RFQID, p.QuotationID)
			if err != nil {
				return wrapErr(err, "reject siblings")
			}
		}

		if err := insertOrder(ctx, tx, p.Order); err != nil {
			return err
		}
		return insertEvent(ctx, tx, p.Event)
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// RejectQuotation отклоняет только ожидающую котировку.
func (s *Storage) RejectQuotation(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE quotations SET status='rejected' WHERE id=$1 AND status='pending'`, id)
	if err != nil {
		return wrapErr(err, "reject quotation")
	}
	return expectOne(res, "reject quotation")
}
