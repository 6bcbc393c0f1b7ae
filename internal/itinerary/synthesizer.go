// Package itinerary turns a complete trip requirement into a day-by-day plan,
// through the generative backend when possible and the fallback chain
// otherwise.
package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/alexanderramin/trek/internal/domain"
	"github.com/alexanderramin/trek/internal/llm"
)

var (
	// ErrDecode indicates the backend output could not be turned into a plan,
	// even after repair.
	ErrDecode = errors.New("itinerary output could not be decoded")

	// ErrValidation indicates a decoded plan is missing required content.
	ErrValidation = errors.New("itinerary failed validation")
)

// requiredKeys must appear in the backend document itself; placeholders
// never satisfy them.
var requiredKeys = []string{"trip_name", "location", "duration", "daily_itinerary"}

// placeholders stand in for trailing sections lost to truncation.
var placeholders = map[string]json.RawMessage{
	"accommodation_suggestions": json.RawMessage(`[]`),
	"transport_tips":            json.RawMessage(`""`),
	"packing_list":              json.RawMessage(`[]`),
	"important_notes":           json.RawMessage(`[]`),
}

// SynthesisRequest is the input to one synthesis.
type SynthesisRequest struct {
	Location     string
	DurationDays int
	Budget       int
	Preferences  []domain.Preference
	SpecialNeeds []domain.SpecialNeed
}

// RequestFrom builds a synthesis request from a complete requirement.
func RequestFrom(req domain.TripRequirement) SynthesisRequest {
	return SynthesisRequest{
		Location:     req.Location,
		DurationDays: req.DurationDays,
		Budget:       req.BudgetAmount,
		Preferences:  req.Preferences,
		SpecialNeeds: req.SpecialNeeds,
	}
}

// SynthesisResult is either a generated plan (Success) or an error with a
// degraded plan. Fallback is non-nil whenever Success is false.
type SynthesisResult struct {
	Success        bool
	Plan           *domain.ItineraryPlan
	Err            error
	Fallback       *domain.ItineraryPlan
	FallbackSource domain.PlanSource
	Repaired       bool
}

// Best returns the plan to show the user and where it came from.
func (r SynthesisResult) Best() (domain.ItineraryPlan, domain.PlanSource) {
	if r.Success && r.Plan != nil {
		return *r.Plan, domain.SourceLLM
	}
	if r.Fallback != nil {
		return *r.Fallback, r.FallbackSource
	}
	return domain.ItineraryPlan{}, domain.SourceGeneric
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithLogger logs synthesis failures and repairs.
func WithLogger(l *slog.Logger) SynthesizerOption {
	return func(s *Synthesizer) {
		if l != nil {
			s.log = l
		}
	}
}

// Synthesizer makes one backend call per plan and never retries.
type Synthesizer struct {
	gen      llm.TextGenerator
	fallback *FallbackChain
	validate *validator.Validate
	log      *slog.Logger
}

// NewSynthesizer returns a synthesizer. A nil generator makes every call fall
// back; a nil chain behaves as one with an empty library.
func NewSynthesizer(gen llm.TextGenerator, fallback *FallbackChain, opts ...SynthesizerOption) *Synthesizer {
	if fallback == nil {
		fallback = NewFallbackChain(nil)
	}
	s := &Synthesizer{
		gen:      gen,
		fallback: fallback,
		validate: validator.New(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize produces a plan for req. Failures are reported in the result,
// never returned or raised.
func (s *Synthesizer) Synthesize(ctx context.Context, req SynthesisRequest) SynthesisResult {
	req.DurationDays = max(req.DurationDays, 1)

	plan, repaired, err := s.generate(ctx, req)
	if err != nil {
		s.log.Warn("itinerary synthesis failed",
			"location", req.Location, "days", req.DurationDays, "error", err)
		fb, src := s.fallback.DegradedPlan(req.Location, req.DurationDays, req.Budget)
		return SynthesisResult{Err: err, Fallback: &fb, FallbackSource: src, Repaired: repaired}
	}
	if repaired {
		s.log.Info("itinerary output repaired", "location", req.Location, "days", len(plan.Days))
	}

	s.fitDays(&plan, req)
	if req.Budget > 0 && plan.TotalBudget <= 0 {
		plan.TotalBudget = domain.FlexInt(req.Budget)
	}
	if len(plan.BudgetBreakdown) == 0 && plan.TotalBudget > 0 {
		plan.BudgetBreakdown = domain.SplitBudget(int(plan.TotalBudget))
	}
	plan.Normalize()
	return SynthesisResult{Success: true, Plan: &plan, Repaired: repaired}
}

func (s *Synthesizer) generate(ctx context.Context, req SynthesisRequest) (domain.ItineraryPlan, bool, error) {
	if s.gen == nil {
		return domain.ItineraryPlan{}, false, fmt.Errorf("generating itinerary: %w", llm.ErrNotConfigured)
	}
	resp, err := s.gen.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskItinerary,
		SystemPrompt: itinerarySystemPrompt,
		UserPrompt:   buildItineraryPrompt(req),
	})
	if err != nil {
		return domain.ItineraryPlan{}, false, fmt.Errorf("generating itinerary: %w", err)
	}

	res, err := llm.DecodeWithRepair[domain.ItineraryPlan](resp.Text, placeholders)
	if err != nil {
		return domain.ItineraryPlan{}, false, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	for _, key := range requiredKeys {
		if !res.Present(key) {
			return domain.ItineraryPlan{}, res.Repaired, fmt.Errorf("%w: missing %s", ErrValidation, key)
		}
	}
	if err := s.validate.Struct(res.Value); err != nil {
		return domain.ItineraryPlan{}, res.Repaired, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return res.Value, res.Repaired, nil
}

// fitDays makes the plan cover exactly the requested number of days:
// surplus days are dropped and missing ones are taken from the degraded
// plan for the same request.
func (s *Synthesizer) fitDays(plan *domain.ItineraryPlan, req SynthesisRequest) {
	want := req.DurationDays
	switch {
	case len(plan.Days) > want:
		plan.Days = plan.Days[:want]
	case len(plan.Days) < want:
		fb, _ := s.fallback.DegradedPlan(req.Location, want, req.Budget)
		plan.Days = append(plan.Days, fb.Days[len(plan.Days):]...)
	}
	plan.DurationDays = want
}
