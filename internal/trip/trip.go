// Package trip turns itinerary plans into dated trip records and holds the
// rules for tracking a trip after it is planned.
package trip

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/trek/internal/domain"
)

var (
	// ErrInvalidTransition is returned when a status change would move a trip
	// backwards.
	ErrInvalidTransition = errors.New("invalid trip status transition")

	// ErrNegativeSpend is returned for spends below zero.
	ErrNegativeSpend = errors.New("spend amount must not be negative")
)

// LeadDays is how far ahead of creation a new trip starts.
const LeadDays = 7

// ToTripRecord pins plan to calendar dates starting LeadDays after now.
func ToTripRecord(plan domain.ItineraryPlan, source domain.PlanSource, now time.Time) domain.TripRecord {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, LeadDays)
	days := max(plan.DurationDays, len(plan.Days), 1)

	rec := domain.TripRecord{
		ID:                       uuid.New().String(),
		Name:                     plan.Name,
		Location:                 plan.Location,
		StartDate:                start,
		EndDate:                  start.AddDate(0, 0, days-1),
		Days:                     days,
		Budget:                   int(plan.TotalBudget),
		Status:                   domain.TripPlanning,
		Itinerary:                make([]domain.TripDay, len(plan.Days)),
		AccommodationSuggestions: slices.Clone(plan.AccommodationSuggestions),
		TransportTips:            plan.TransportTips,
		PackingList:              slices.Clone(plan.PackingList),
		Notes:                    strings.Join(plan.ImportantNotes, "\n"),
		Source:                   source,
		CreatedAt:                now.UTC(),
		UpdatedAt:                now.UTC(),
	}
	for i, day := range plan.Days {
		rec.Itinerary[i] = domain.TripDay{
			DayIndex:   i + 1,
			Date:       start.AddDate(0, 0, i),
			Theme:      day.Theme,
			Activities: slices.Clone(day.Activities),
		}
	}
	return rec
}

// DayView is one printable day of a trip.
type DayView struct {
	Index      int
	Date       string
	Weekday    string
	Theme      string
	Activities []domain.Activity
	Cost       int
}

var weekdays = [...]string{"日", "一", "二", "三", "四", "五", "六"}

// Days returns the per-day view of rec in itinerary order.
func Days(rec domain.TripRecord) []DayView {
	views := make([]DayView, len(rec.Itinerary))
	for i, d := range rec.Itinerary {
		cost := 0
		for _, a := range d.Activities {
			cost += int(a.Cost)
		}
		views[i] = DayView{
			Index:      d.DayIndex,
			Date:       d.Date.Format(domain.DateLayout),
			Weekday:    "週" + weekdays[d.Date.Weekday()],
			Theme:      d.Theme,
			Activities: d.Activities,
			Cost:       cost,
		}
	}
	return views
}

// Summary is the budget and progress overview of a trip.
type Summary struct {
	Name          string
	Location      string
	Dates         string
	Days          int
	Status        domain.TripStatus
	Budget        int
	Spent         int
	Remaining     int
	PlannedCost   int
	Activities    int
	UsedFallback  bool
	OverBudget    bool
	SpentFraction float64
}

// Summarize computes the overview shown after planning and by the trip list.
func Summarize(rec domain.TripRecord) Summary {
	s := Summary{
		Name:         rec.Name,
		Location:     rec.Location,
		Dates:        fmt.Sprintf("%s ~ %s", rec.StartDate.Format(domain.DateLayout), rec.EndDate.Format(domain.DateLayout)),
		Days:         rec.Days,
		Status:       rec.Status,
		Budget:       rec.Budget,
		Spent:        rec.Spent,
		Remaining:    rec.Remaining(),
		UsedFallback: rec.Source.IsDegraded(),
		OverBudget:   rec.Spent > rec.Budget,
	}
	for _, d := range Days(rec) {
		s.PlannedCost += d.Cost
		s.Activities += len(d.Activities)
	}
	if rec.Budget > 0 {
		s.SpentFraction = float64(rec.Spent) / float64(rec.Budget)
	}
	return s
}

// ApplySpend adds amount to the trip's spent total.
func ApplySpend(rec *domain.TripRecord, amount int, now time.Time) error {
	if amount < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSpend, amount)
	}
	rec.Spent += amount
	rec.UpdatedAt = now.UTC()
	return nil
}

// Transition moves the trip to status to. Setting the current status again
// is a no-op.
func Transition(rec *domain.TripRecord, to domain.TripStatus, now time.Time) error {
	if rec.Status == to {
		return nil
	}
	if !domain.CanTransition(rec.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rec.Status, to)
	}
	rec.Status = to
	rec.UpdatedAt = now.UTC()
	return nil
}

// ParseStatus accepts a status name or its display label.
func ParseStatus(s string) (domain.TripStatus, error) {
	for _, st := range []domain.TripStatus{domain.TripPlanning, domain.TripOngoing, domain.TripCompleted} {
		if strings.EqualFold(s, string(st)) || s == st.Label() {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown trip status %q", s)
}
