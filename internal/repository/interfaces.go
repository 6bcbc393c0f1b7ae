package repository

import (
	"context"

	"github.com/alexanderramin/trek/internal/domain"
)

// TripRepo stores trip records. Adjustments are stored separately through
// AdjustmentRepo; GetByID leaves TripRecord.Adjustments empty.
type TripRepo interface {
	Create(ctx context.Context, t *domain.TripRecord) error
	GetByID(ctx context.Context, id string) (*domain.TripRecord, error)
	Resolve(ctx context.Context, idOrPrefix string) (*domain.TripRecord, error)
	List(ctx context.Context, status domain.TripStatus) ([]*domain.TripRecord, error)
	Update(ctx context.Context, t *domain.TripRecord) error
	Delete(ctx context.Context, id string) error
}

// AdjustmentRepo stores the per-trip change log.
type AdjustmentRepo interface {
	Create(ctx context.Context, a *domain.Adjustment) error
	ListByTrip(ctx context.Context, tripID string) ([]domain.Adjustment, error)
}
