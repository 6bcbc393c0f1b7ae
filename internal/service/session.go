package service

import (
	"github.com/google/uuid"

	"github.com/alexanderramin/trek/internal/domain"
)

// Session is the state of one conversation. It belongs to a single
// goroutine and is passed into every turn.
type Session struct {
	ID          string
	Requirement domain.TripRequirement
	Turns       int
	LastTrip    *domain.TripRecord
}

func NewSession() *Session {
	return &Session{ID: uuid.New().String()}
}

// Reset forgets the collected requirement. The last trip is kept.
func (s *Session) Reset() {
	s.Requirement = domain.TripRequirement{}
}

// TurnResult is what one turn produced: a question when the requirement is
// still incomplete, otherwise a trip.
type TurnResult struct {
	Extracted   domain.PartialRequirement
	Requirement domain.TripRequirement
	Collected   string

	Complete bool
	Missing  []domain.Field
	Question string

	Trip     *domain.TripRecord
	Source   domain.PlanSource
	Repaired bool
	CacheHit bool
	// PlanErr is why the generative backend was not used, if it was not.
	PlanErr error
}

// UsedFallback reports whether the trip came from a template or the
// generic plan.
func (r *TurnResult) UsedFallback() bool {
	return r.Trip != nil && r.Source.IsDegraded()
}
