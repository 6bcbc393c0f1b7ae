package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/trek/internal/cache"
	"github.com/alexanderramin/trek/internal/domain"
	"github.com/alexanderramin/trek/internal/extract"
	"github.com/alexanderramin/trek/internal/intake"
	"github.com/alexanderramin/trek/internal/itinerary"
	"github.com/alexanderramin/trek/internal/llm"
	"github.com/alexanderramin/trek/internal/repository"
	"github.com/alexanderramin/trek/internal/trip"
)

type conversationService struct {
	synth    *itinerary.Synthesizer
	gen      llm.TextGenerator
	trips    repository.TripRepo
	plans    cache.PlanCache
	observer UseCaseObserver
	log      *slog.Logger
	now      func() time.Time
}

// ConversationOption configures the conversation service.
type ConversationOption func(*conversationService)

// WithPlanCache reuses generated plans for identical requirements.
func WithPlanCache(c cache.PlanCache) ConversationOption {
	return func(s *conversationService) { s.plans = c }
}

// WithFollowUpGenerator phrases follow-up questions with gen instead of the
// fixed templates.
func WithFollowUpGenerator(gen llm.TextGenerator) ConversationOption {
	return func(s *conversationService) { s.gen = gen }
}

func WithObserver(obs UseCaseObserver) ConversationOption {
	return func(s *conversationService) {
		if obs != nil {
			s.observer = obs
		}
	}
}

func WithLogger(l *slog.Logger) ConversationOption {
	return func(s *conversationService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock fixes the time used for date defaults and trip start dates.
func WithClock(now func() time.Time) ConversationOption {
	return func(s *conversationService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewConversationService wires the pipeline. trips may be nil, in which
// case trips are returned but not stored.
func NewConversationService(synth *itinerary.Synthesizer, trips repository.TripRepo, opts ...ConversationOption) ConversationService {
	if synth == nil {
		synth = itinerary.NewSynthesizer(nil, nil)
	}
	s := &conversationService{
		synth:    synth,
		trips:    trips,
		observer: NoopUseCaseObserver{},
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *conversationService) HandleTurn(ctx context.Context, sess *Session, message string) (result *TurnResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"complete": false}
	defer func() {
		if sess != nil {
			fields["session"] = sess.ID
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "handle-turn",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if sess == nil {
		return nil, fmt.Errorf("handling turn: nil session")
	}
	now := s.now()
	sess.Turns++

	extracted := extract.Extractor{Now: s.now}.Extract(message)
	sess.Requirement = intake.Merge(sess.Requirement, extracted)

	req := sess.Requirement.Clone()
	result = &TurnResult{Extracted: extracted}
	if !intake.IsComplete(&req, now) {
		result.Requirement = req
		result.Collected = intake.FormatCollected(req)
		result.Missing = req.MissingFields()
		result.Question, _ = intake.NextQuestion(ctx, result.Missing, req, s.gen)
		return result, nil
	}

	sess.Requirement = req
	result.Complete = true
	result.Requirement = req
	result.Collected = intake.FormatCollected(req)
	fields["complete"] = true

	plan, source := s.plan(ctx, req, result)
	rec := trip.ToTripRecord(plan, source, now)
	if s.trips != nil {
		if err := s.trips.Create(ctx, &rec); err != nil {
			return nil, fmt.Errorf("saving trip: %w", err)
		}
	}

	result.Trip = &rec
	result.Source = source
	fields["source"] = string(source)
	fields["repaired"] = result.Repaired
	fields["cache_hit"] = result.CacheHit

	sess.LastTrip = &rec
	sess.Reset()
	return result, nil
}

// plan returns a cached plan when one exists, otherwise synthesizes one and
// caches it if the backend produced it. Cache failures are logged and
// otherwise ignored.
func (s *conversationService) plan(ctx context.Context, req domain.TripRequirement, result *TurnResult) (domain.ItineraryPlan, domain.PlanSource) {
	key := cache.PlanKey(req)
	if s.plans != nil {
		cached, err := s.plans.Get(ctx, key)
		if err != nil {
			s.log.Warn("plan cache lookup failed", "error", err)
		}
		if cached != nil {
			result.CacheHit = true
			return *cached, domain.SourceLLM
		}
	}

	res := s.synth.Synthesize(ctx, itinerary.RequestFrom(req))
	result.Repaired = res.Repaired
	result.PlanErr = res.Err
	plan, source := res.Best()

	if res.Success && s.plans != nil {
		if err := s.plans.Set(ctx, key, &plan); err != nil {
			s.log.Warn("plan cache store failed", "error", err)
		}
	}
	return plan, source
}
