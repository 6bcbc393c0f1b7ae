package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/trek/internal/domain"
)

// Requirement options
type RequirementOption func(*domain.TripRequirement)

func WithBudget(n int) RequirementOption {
	return func(r *domain.TripRequirement) { r.BudgetAmount = n }
}

func WithPeople(n int) RequirementOption {
	return func(r *domain.TripRequirement) { r.PeopleCount = n }
}

func WithTripType(t domain.TripType) RequirementOption {
	return func(r *domain.TripRequirement) { r.TripType = t }
}

func WithPreferences(p ...domain.Preference) RequirementOption {
	return func(r *domain.TripRequirement) { r.Preferences = p }
}

// NewTestRequirement returns a requirement with both mandatory fields set.
func NewTestRequirement(location string, days int, opts ...RequirementOption) domain.TripRequirement {
	r := domain.TripRequirement{Location: location, DurationDays: days}
	for _, o := range opts {
		o(&r)
	}
	return r
}

// Plan options
type PlanOption func(*domain.ItineraryPlan)

func WithPlanBudget(total int) PlanOption {
	return func(p *domain.ItineraryPlan) { p.ApplyBudget(total) }
}

func WithNotes(notes ...string) PlanOption {
	return func(p *domain.ItineraryPlan) { p.ImportantNotes = notes }
}

func WithActivities(day int, acts ...domain.Activity) PlanOption {
	return func(p *domain.ItineraryPlan) { p.Days[day-1].Activities = acts }
}

// NewTestPlan returns a valid plan with two timed activities per day.
func NewTestPlan(location string, days int, opts ...PlanOption) domain.ItineraryPlan {
	p := domain.ItineraryPlan{
		Name:         fmt.Sprintf("%s%d日遊", location, days),
		Location:     location,
		DurationDays: days,
		Days:         make([]domain.DayPlan, days),
		AccommodationSuggestions: []domain.Accommodation{
			{Name: location + "測試旅店", Type: "hotel", Area: "市區", PriceRange: "NT$ 2,000", Reason: "近車站"},
		},
		TransportTips: "搭公車",
		PackingList:   []string{"雨傘"},
	}
	for i := range p.Days {
		p.Days[i] = domain.DayPlan{
			DayIndex: i + 1,
			Theme:    fmt.Sprintf("第%d天", i+1),
			Activities: []domain.Activity{
				{Time: "09:00", Name: fmt.Sprintf("景點%d-1", i+1), Category: "sightseeing", DurationLabel: "2小時", Cost: 100},
				{Time: "12:30", Name: fmt.Sprintf("午餐%d", i+1), Category: "food", DurationLabel: "1小時", Cost: 300},
			},
		}
	}
	p.ApplyBudget(days * 5000)
	for _, o := range opts {
		o(&p)
	}
	return p
}

// Trip options
type TripOption func(*domain.TripRecord)

func WithTripStatus(s domain.TripStatus) TripOption {
	return func(t *domain.TripRecord) { t.Status = s }
}

func WithStartDate(d time.Time) TripOption {
	return func(t *domain.TripRecord) {
		t.StartDate = d
		t.EndDate = d.AddDate(0, 0, t.Days-1)
		for i := range t.Itinerary {
			t.Itinerary[i].Date = d.AddDate(0, 0, i)
		}
	}
}

func WithSpent(n int) TripOption {
	return func(t *domain.TripRecord) { t.Spent = n }
}

// NewTestTrip returns a stored-shape trip record with a fresh ID.
func NewTestTrip(location string, days int, opts ...TripOption) *domain.TripRecord {
	now := time.Now().UTC().Truncate(time.Second)
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	t := &domain.TripRecord{
		ID:            uuid.New().String(),
		Name:          fmt.Sprintf("%s%d日遊", location, days),
		Location:      location,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, days-1),
		Days:          days,
		Budget:        days * 5000,
		Status:        domain.TripPlanning,
		TransportTips: "搭公車",
		PackingList:   []string{"雨傘"},
		Source:        domain.SourceLLM,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i := range days {
		t.Itinerary = append(t.Itinerary, domain.TripDay{
			DayIndex: i + 1,
			Date:     start.AddDate(0, 0, i),
			Theme:    fmt.Sprintf("第%d天", i+1),
			Activities: []domain.Activity{
				{Time: "09:00", Name: fmt.Sprintf("景點%d", i+1), Cost: 100},
			},
		})
	}
	for _, o := range opts {
		o(t)
	}
	return t
}
