package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shipsupply/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RFQ (Запрос котировок)

type RFQFilter struct {
	ShipownerID *uuid.UUID
	Statuses    []models.RFQStatus
	Categories  []string
	Page
}

func (s *Storage) CreateRFQ(ctx context.Context, r *models.RFQ) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	query := `
        INSERT INTO rfqs
            (id, shipowner_id, shipowner_company, title, description, category, subcategory,
             vessel_name, vessel_type, vessel_imo, deadline, status)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING created_at`
	err := s.db.QueryRowContext(ctx, query,
		r.ID, r.ShipownerID, r.ShipownerName, r.Title, r.Description, r.Category, r.Subcategory,
		r.VesselName, r.VesselType, r.VesselIMO, r.Deadline, r.Status).
		Scan(&r.CreatedAt)
	return wrapErr(err, "create rfq")
}

func (s *Storage) GetRFQ(ctx context.Context, id uuid.UUID) (*models.RFQ, error) {
	r := &models.RFQ{}
	err := s.db.GetContext(ctx, r, `SELECT * FROM rfqs WHERE id=$1`, id)
	if err != nil {
		return nil, wrapErr(err, "get rfq")
	}
	return r, nil
}

func (s *Storage) ListRFQs(ctx context.Context, f RFQFilter) ([]models.RFQ, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.ShipownerID != nil {
		args = append(args, *f.ShipownerID)
		where = append(where, fmt.Sprintf("shipowner_id = $%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = string(st)
		}
		args = append(args, pq.StringArray(statuses))
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if len(f.Categories) > 0 {
		args = append(args, pq.StringArray(f.Categories))
		where = append(where, fmt.Sprintf("category = ANY($%d)", len(args)))
	}

	query := "SELECT * FROM rfqs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rfqs := []models.RFQ{}
	if err := s.db.SelectContext(ctx, &rfqs, query, args...); err != nil {
		return nil, wrapErr(err, "list rfqs")
	}
	return rfqs, nil
}

// UpdateRFQStatus меняет статус только если текущий статус равен from.
func (s *Storage) UpdateRFQStatus(ctx context.Context, id uuid.UUID, from, to models.RFQStatus) error {
	var awardedAt *time.Time
	if to == models.RFQAwarded {
		now := time.Now()
		awardedAt = &now
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE rfqs SET status=$1, awarded_at=COALESCE($2, awarded_at) WHERE id=$3 AND status=$4`,
		to, awardedAt, id, from)
	if err != nil {
		return wrapErr(err, "update rfq status")
	}
	return expectOne(res, "update rfq status")
}
