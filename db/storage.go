package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	// ErrRFQNotOpen - RFQ уже закрыт или присуждён; errors.Is(err, ErrConflict) тоже верно.
	ErrRFQNotOpen = fmt.Errorf("rfq is not open: %w", ErrConflict)
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// inTx выполняет fn в транзакции; при ошибке транзакция откатывается.
func (s *Storage) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// wrapErr переводит ошибки драйвера в ErrNotFound/ErrConflict.
// Нарушение внешнего ключа (23503) означает ссылку на несуществующую запись.
func wrapErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w (%s)", what, ErrConflict, pqErr.Constraint)
		case "23503":
			return fmt.Errorf("%s: %w (%s)", what, ErrNotFound, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

func expectOne(res sql.Result, what string) error {
	return expectOneOr(res, what, ErrConflict)
}

// expectOneOr - как expectOne, но при нуле затронутых строк возвращает sentinel.
func expectOneOr(res sql.Result, what string, sentinel error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, sentinel)
	}
	return nil
}

// Page - limit/offset для списков
type Page struct {
	Limit  int
	Offset int
}
