package db

import (
	"context"
	"testing"
	"time"

	"shipsupply/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func acceptParams() AcceptParams {
	rfqID, quotationID := uuid.New(), uuid.New()
	now := time.Now().UTC()
	order := &models.Order{
		ID:            uuid.New(),
		RFQID:         rfqID,
		QuotationID:   quotationID,
		ShipownerID:   uuid.New(),
		SupplierID:    uuid.New(),
		Amount:        decimal.NewFromInt(1200),
		Currency:      "USD",
		Status:        models.OrderPending,
		PaymentStatus: models.PaymentPending,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return AcceptParams{
		QuotationID: quotationID,
		RFQID:       rfqID,
		Order:       order,
		Event: &models.OrderEvent{
			OrderID:   order.ID,
			Seq:       1,
			Kind:      models.EventCreated,
			Status:    string(models.OrderPending),
			ActorID:   order.ShipownerID,
			CreatedAt: now,
		},
		RejectSiblings: true,
	}
}

func TestAcceptQuotationRejectsPendingSiblings(t *testing.T) {
	s, mock := newMockStorage(t)
	p := acceptParams()
	sib1, sib2 := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM quotations WHERE id=\$1 FOR UPDATE`).
		WithArgs(p.QuotationID).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
	mock.ExpectExec(`UPDATE quotations SET status='accepted' WHERE id=\$1`).
		WithArgs(p.QuotationID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE rfqs SET status='awarded', awarded_at=NOW\(\) WHERE id=\$1 AND status='open'`).
		WithArgs(p.RFQID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE quotations SET status='rejected' WHERE rfq_id=\$1 AND id<>\$2 AND status='pending' RETURNING \*`).
		WithArgs(p.RFQID, p.QuotationID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rfq_id", "supplier_id", "status"}).
			AddRow(uuid.NewString(), p.RFQID.String(), sib1.String(), "rejected").
			AddRow(uuid.NewString(), p.RFQID.String(), sib2.String(), "rejected"))
	mock.ExpectExec(`INSERT INTO orders`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO order_events`).
		WithArgs(p.Order.ID, 1, models.EventCreated, "pending", "", p.Order.ShipownerID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	rejected, err := s.AcceptQuotation(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, rejected, 2)
	require.Equal(t, sib1, rejected[0].SupplierID)
	require.Equal(t, sib2, rejected[1].SupplierID)
	require.Equal(t, models.QuotationRejected, rejected[1].Status)
	require.Equal(t, int64(7), p.Event.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptQuotationKeepsSiblingsWhenDisabled(t *testing.T) {
	s, mock := newMockStorage(t)
	p := acceptParams()
	p.RejectSiblings = false

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM quotations`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
	mock.ExpectExec(`UPDATE quotations SET status='accepted'`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE rfqs SET status='awarded'`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO order_events`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	rejected, err := s.AcceptQuotation(context.Background(), p)
	require.NoError(t, err)
	require.Empty(t, rejected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptQuotationRollsBackWhenRFQNotOpen(t *testing.T) {
	s, mock := newMockStorage(t)
	p := acceptParams()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM quotations`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
	mock.ExpectExec(`UPDATE quotations SET status='accepted'`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE rfqs SET status='awarded'`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	rejected, err := s.AcceptQuotation(context.Background(), p)
	require.ErrorIs(t, err, ErrRFQNotOpen)
	require.ErrorIs(t, err, ErrConflict)
	require.Nil(t, rejected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptQuotationNotPending(t *testing.T) {
	s, mock := newMockStorage(t)
	p := acceptParams()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM quotations`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("accepted"))
	mock.ExpectRollback()

	_, err := s.AcceptQuotation(context.Background(), p)
	require.ErrorIs(t, err, ErrConflict)
	require.NotErrorIs(t, err, ErrRFQNotOpen)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuotationBumpsCountOnlyForOpenRFQ(t *testing.T) {
	s, mock := newMockStorage(t)
	q := &models.Quotation{
		RFQID:      uuid.New(),
		SupplierID: uuid.New(),
		Price:      decimal.RequireFromString("980.00"),
		Currency:   "USD",
		Status:     models.QuotationPending,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE rfqs SET quotation_count = quotation_count \+ 1 WHERE id=\$1 AND status='open'`).
		WithArgs(q.RFQID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.CreateQuotation(context.Background(), q)
	require.ErrorIs(t, err, ErrRFQNotOpen)

	created := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE rfqs SET quotation_count = quotation_count \+ 1`).
		WithArgs(q.RFQID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO quotations`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))
	mock.ExpectCommit()

	require.NoError(t, s.CreateQuotation(context.Background(), q))
	require.Equal(t, created, q.CreatedAt)
	require.NotEqual(t, uuid.Nil, q.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
