package db

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewStorage(sqlx.NewDb(conn, "postgres")), mock
}

func TestWrapErr(t *testing.T) {
	require.NoError(t, wrapErr(nil, "noop"))

	err := wrapErr(sql.ErrNoRows, "get rfq")
	require.ErrorIs(t, err, ErrNotFound)

	err = wrapErr(&pq.Error{Code: "23505", Constraint: "users_email_key"}, "create user")
	require.ErrorIs(t, err, ErrConflict)
	require.Contains(t, err.Error(), "users_email_key")

	// ссылка на несуществующий заказ/котировку
	err = wrapErr(&pq.Error{Code: "23503", Constraint: "chats_order_id_fkey"}, "create chat")
	require.ErrorIs(t, err, ErrNotFound)

	err = wrapErr(errors.New("connection reset"), "list orders")
	require.False(t, errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict))
}

func TestErrRFQNotOpenIsConflict(t *testing.T) {
	require.ErrorIs(t, ErrRFQNotOpen, ErrConflict)
	require.False(t, errors.Is(ErrConflict, ErrRFQNotOpen))
}
