package db

import (
	"context"
	"strings"

	"shipsupply/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// User (Пользователь)

func (s *Storage) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Categories == nil {
		u.Categories = pq.StringArray{}
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	query := `
        INSERT INTO users (id, email, password_hash, role, company_name, supplier_type, categories)
        VALUES (:id, :email, :password_hash, :role, :company_name, :supplier_type, :categories)
        RETURNING created_at`
	rows, err := s.db.NamedQueryContext(ctx, query, u)
	if err != nil {
		return wrapErr(err, "create user")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&u.CreatedAt); err != nil {
			return err
		}
	}
	return wrapErr(rows.Err(), "create user")
}

func (s *Storage) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u := &models.User{}
	err := s.db.GetContext(ctx, u, `SELECT * FROM users WHERE id=$1`, id)
	if err != nil {
		return nil, wrapErr(err, "get user")
	}
	return u, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	err := s.db.GetContext(ctx, u, `SELECT * FROM users WHERE email=$1`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, wrapErr(err, "get user by email")
	}
	return u, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY created_at DESC`)
	return users, wrapErr(err, "list users")
}

func (s *Storage) UpdateUserCategories(ctx context.Context, id uuid.UUID, categories []string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET categories=$1 WHERE id=$2`, pq.StringArray(categories), id)
	if err != nil {
		return wrapErr(err, "update categories")
	}
	return expectOne(res, "update categories")
}

// Session (Сессия)

func (s *Storage) CreateSession(ctx context.Context, sess *models.Session) error {
	query := `
        INSERT INTO sessions (id, user_id, expires_at)
        VALUES ($1, $2, $3)
        RETURNING created_at`
	err := s.db.QueryRowContext(ctx, query, sess.ID, sess.UserID, sess.ExpiresAt).Scan(&sess.CreatedAt)
	return wrapErr(err, "create session")
}

func (s *Storage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=$1`, id)
	return wrapErr(err, "delete session")
}

func (s *Storage) SessionActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(1) FROM sessions WHERE id=$1 AND expires_at > NOW()`, id)
	if err != nil {
		return false, wrapErr(err, "session lookup")
	}
	return count > 0, nil
}
