package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/trek/internal/db"
	"github.com/alexanderramin/trek/internal/domain"
)

// SQLiteAdjustmentRepo implements AdjustmentRepo.
type SQLiteAdjustmentRepo struct {
	db db.DBTX
}

func NewSQLiteAdjustmentRepo(conn db.DBTX) *SQLiteAdjustmentRepo {
	return &SQLiteAdjustmentRepo{db: conn}
}

func (r *SQLiteAdjustmentRepo) Create(ctx context.Context, a *domain.Adjustment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO trip_adjustments (id, trip_id, kind, detail, amount, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.TripID, a.Kind, a.Detail, a.Amount, a.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting trip adjustment: %w", err)
	}
	return nil
}

// ListByTrip returns a trip's adjustments, oldest first.
func (r *SQLiteAdjustmentRepo) ListByTrip(ctx context.Context, tripID string) ([]domain.Adjustment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, trip_id, kind, detail, amount, created_at FROM trip_adjustments
		WHERE trip_id = ? ORDER BY created_at, rowid`, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing trip adjustments: %w", err)
	}
	defer rows.Close()

	var out []domain.Adjustment
	for rows.Next() {
		var a domain.Adjustment
		var created string
		if err := rows.Scan(&a.ID, &a.TripID, &a.Kind, &a.Detail, &a.Amount, &created); err != nil {
			return nil, fmt.Errorf("scanning trip adjustment: %w", err)
		}
		if a.CreatedAt, err = time.Parse(timestampLayout, created); err != nil {
			return nil, fmt.Errorf("parsing adjustment created_at: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trip adjustments: %w", err)
	}
	return out, nil
}
