package db

import (
	"context"
	"fmt"
	"strings"

	"shipsupply/models"

	"github.com/google/uuid"
)

// Review (Отзыв)

type ReviewFilter struct {
	SupplierID *uuid.UUID
	OrderID    *uuid.UUID
}

func (s *Storage) CreateReview(ctx context.Context, r *models.Review) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	query := `
        INSERT INTO reviews (id, order_id, shipowner_id, supplier_id, rating, comment)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`
	err := s.db.QueryRowContext(ctx, query,
		r.ID, r.OrderID, r.ShipownerID, r.SupplierID, r.Rating, r.Comment).Scan(&r.CreatedAt)
	return wrapErr(err, "create review")
}

func (s *Storage) ListReviews(ctx context.Context, f ReviewFilter) ([]models.Review, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.SupplierID != nil {
		args = append(args, *f.SupplierID)
		where = append(where, fmt.Sprintf("supplier_id = $%d", len(args)))
	}
	if f.OrderID != nil {
		args = append(args, *f.OrderID)
		where = append(where, fmt.Sprintf("order_id = $%d", len(args)))
	}
	query := "SELECT * FROM reviews"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	reviews := []models.Review{}
	if err := s.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, wrapErr(err, "list reviews")
	}
	return reviews, nil
}
