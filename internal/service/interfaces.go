package service

import (
	"context"

	"github.com/alexanderramin/trek/internal/domain"
)

// ConversationService runs one user turn through the planning pipeline.
type ConversationService interface {
	HandleTurn(ctx context.Context, sess *Session, message string) (*TurnResult, error)
}

// TripService tracks planned trips after the conversation produced them.
// Every method accepting an id also accepts a unique prefix of one.
type TripService interface {
	Get(ctx context.Context, id string) (*domain.TripRecord, error)
	List(ctx context.Context, status domain.TripStatus) ([]*domain.TripRecord, error)
	RecordSpend(ctx context.Context, id string, amount int, note string) (*domain.TripRecord, error)
	Remaining(ctx context.Context, id string) (int, error)
	AddAdjustment(ctx context.Context, id, note string) (*domain.Adjustment, error)
	AdvanceStatus(ctx context.Context, id string, to domain.TripStatus) (*domain.TripRecord, error)
	Delete(ctx context.Context, id string) error
}
