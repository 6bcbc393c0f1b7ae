package domain

import "slices"

// Field names a requirement slot.
type Field string

const (
	FieldLocation    Field = "location"
	FieldDuration    Field = "duration"
	FieldDate        Field = "date"
	FieldPeople      Field = "people"
	FieldBudget      Field = "budget"
	FieldPreferences Field = "preferences"
)

// Extras holds the optional trip parameters. Zero values mean absent.
// A nil Preferences slice is absent; an empty non-nil slice records that the
// user has no particular preference.
type Extras struct {
	Date         string        `json:"date,omitempty"`
	PeopleCount  int           `json:"people_count,omitempty"`
	BudgetAmount int           `json:"budget_amount,omitempty"`
	TripType     TripType      `json:"trip_type,omitempty"`
	Preferences  []Preference  `json:"preferences,omitempty"`
	SpecialNeeds []SpecialNeed `json:"special_needs,omitempty"`
}

// TripRequirement is the accumulated state of what the user wants.
type TripRequirement struct {
	Location     string `json:"location,omitempty"`
	DurationDays int    `json:"duration_days,omitempty"`
	Extras
}

// PartialRequirement is what one message contributed. Raw keeps the message
// for auditing.
type PartialRequirement struct {
	TripRequirement
	Raw string `json:"raw"`
}

// MissingFields returns the absent mandatory fields, location first.
func (r TripRequirement) MissingFields() []Field {
	var missing []Field
	if r.Location == "" {
		missing = append(missing, FieldLocation)
	}
	if r.DurationDays <= 0 {
		missing = append(missing, FieldDuration)
	}
	return missing
}

// IsEmpty reports whether no slot has been collected.
func (r TripRequirement) IsEmpty() bool {
	return r.Location == "" && r.DurationDays == 0 && r.Date == "" &&
		r.PeopleCount == 0 && r.BudgetAmount == 0 && r.TripType == "" &&
		r.Preferences == nil && len(r.SpecialNeeds) == 0
}

// Clone returns a copy that shares no slices with r.
func (r TripRequirement) Clone() TripRequirement {
	out := r
	out.Preferences = slices.Clone(r.Preferences)
	out.SpecialNeeds = slices.Clone(r.SpecialNeeds)
	return out
}
