package domain

import "time"

// DateLayout is the calendar-date format used for trip dates.
const DateLayout = "2006-01-02"

// TripRecord is a planned trip built from an ItineraryPlan.
type TripRecord struct {
	ID                       string
	Name                     string
	Location                 string
	StartDate                time.Time
	EndDate                  time.Time
	Days                     int
	Budget                   int
	Spent                    int
	Status                   TripStatus
	Itinerary                []TripDay
	AccommodationSuggestions []Accommodation
	TransportTips            string
	PackingList              []string
	Notes                    string
	Source                   PlanSource
	Adjustments              []Adjustment
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// TripDay is one itinerary day pinned to a calendar date.
type TripDay struct {
	DayIndex   int
	Date       time.Time
	Theme      string
	Activities []Activity
}

// Adjustment is an entry in a trip's change log.
type Adjustment struct {
	ID        string
	TripID    string
	Kind      string
	Detail    string
	Amount    int
	CreatedAt time.Time
}

// Adjustment kinds.
const (
	AdjustmentSpend  = "spend"
	AdjustmentStatus = "status"
	AdjustmentNote   = "note"
)

// Remaining returns the unspent budget. It may be negative.
func (r TripRecord) Remaining() int {
	return r.Budget - r.Spent
}
