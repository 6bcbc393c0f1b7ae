package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/trek/internal/db"
	"github.com/alexanderramin/trek/internal/domain"
	"github.com/alexanderramin/trek/internal/repository"
	"github.com/alexanderramin/trek/internal/trip"
)

type tripService struct {
	trips       repository.TripRepo
	adjustments repository.AdjustmentRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewTripService(trips repository.TripRepo, adjustments repository.AdjustmentRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TripService {
	return &tripService{
		trips:       trips,
		adjustments: adjustments,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *tripService) Get(ctx context.Context, id string) (*domain.TripRecord, error) {
	rec, err := s.trips.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Adjustments, err = s.adjustments.ListByTrip(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *tripService) List(ctx context.Context, status domain.TripStatus) ([]*domain.TripRecord, error) {
	return s.trips.List(ctx, status)
}

func (s *tripService) RecordSpend(ctx context.Context, id string, amount int, note string) (rec *domain.TripRecord, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"trip": id, "amount": amount}
	defer func() {
		s.observe(ctx, "record-spend", startedAt, fields, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTrips := repository.NewSQLiteTripRepo(tx)
		txAdjustments := repository.NewSQLiteAdjustmentRepo(tx)

		var err error
		rec, err = txTrips.Resolve(ctx, id)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := trip.ApplySpend(rec, amount, now); err != nil {
			return err
		}
		if err := txTrips.Update(ctx, rec); err != nil {
			return err
		}
		return txAdjustments.Create(ctx, &domain.Adjustment{
			ID:        uuid.New().String(),
			TripID:    rec.ID,
			Kind:      domain.AdjustmentSpend,
			Detail:    note,
			Amount:    amount,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	fields["remaining"] = rec.Remaining()
	return rec, nil
}

func (s *tripService) Remaining(ctx context.Context, id string) (int, error) {
	rec, err := s.trips.Resolve(ctx, id)
	if err != nil {
		return 0, err
	}
	return rec.Remaining(), nil
}

func (s *tripService) AddAdjustment(ctx context.Context, id, note string) (*domain.Adjustment, error) {
	if note == "" {
		return nil, fmt.Errorf("adding adjustment: empty note")
	}
	rec, err := s.trips.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	adj := &domain.Adjustment{
		ID:        uuid.New().String(),
		TripID:    rec.ID,
		Kind:      domain.AdjustmentNote,
		Detail:    note,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.adjustments.Create(ctx, adj); err != nil {
		return nil, err
	}
	return adj, nil
}

func (s *tripService) AdvanceStatus(ctx context.Context, id string, to domain.TripStatus) (rec *domain.TripRecord, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"trip": id, "to": string(to)}
	defer func() {
		s.observe(ctx, "advance-status", startedAt, fields, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTrips := repository.NewSQLiteTripRepo(tx)

		var err error
		rec, err = txTrips.Resolve(ctx, id)
		if err != nil {
			return err
		}
		from := rec.Status
		if from == to {
			return nil
		}
		now := time.Now().UTC()
		if err := trip.Transition(rec, to, now); err != nil {
			return err
		}
		if err := txTrips.Update(ctx, rec); err != nil {
			return err
		}
		return repository.NewSQLiteAdjustmentRepo(tx).Create(ctx, &domain.Adjustment{
			ID:        uuid.New().String(),
			TripID:    rec.ID,
			Kind:      domain.AdjustmentStatus,
			Detail:    fmt.Sprintf("%s -> %s", from, to),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *tripService) Delete(ctx context.Context, id string) error {
	rec, err := s.trips.Resolve(ctx, id)
	if err != nil {
		return err
	}
	return s.trips.Delete(ctx, rec.ID)
}

func (s *tripService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}
