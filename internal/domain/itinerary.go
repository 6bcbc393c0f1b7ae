package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Budget breakdown categories.
const (
	BudgetAccommodation = "accommodation"
	BudgetFood          = "food"
	BudgetTransport     = "transport"
	BudgetActivities    = "activities"
)

// BudgetCategories lists the breakdown keys in display order.
var BudgetCategories = []string{BudgetAccommodation, BudgetFood, BudgetTransport, BudgetActivities}

// ItineraryPlan is a generated or templated multi-day plan. The JSON names
// match the document format requested from the generative backend and
// stored in the template library.
type ItineraryPlan struct {
	Name                     string          `json:"trip_name" validate:"required"`
	Location                 string          `json:"location" validate:"required"`
	DurationDays             int             `json:"duration" validate:"required,min=1"`
	TotalBudget              FlexInt         `json:"total_budget"`
	BudgetBreakdown          map[string]int  `json:"budget_breakdown"`
	Days                     []DayPlan       `json:"daily_itinerary" validate:"required,min=1,dive"`
	AccommodationSuggestions []Accommodation `json:"accommodation_suggestions"`
	TransportTips            string          `json:"transport_tips"`
	PackingList              []string        `json:"packing_list"`
	ImportantNotes           []string        `json:"important_notes"`
}

// DayPlan is one day of an itinerary.
type DayPlan struct {
	DayIndex   int        `json:"day" validate:"min=0"`
	Theme      string     `json:"theme"`
	Activities []Activity `json:"activities"`
}

// Activity is a single scheduled item.
type Activity struct {
	Time          string  `json:"time"`
	Name          string  `json:"name"`
	Category      string  `json:"type"`
	Location      string  `json:"location"`
	DurationLabel string  `json:"duration"`
	Cost          FlexInt `json:"cost"`
	Note          string  `json:"note"`
	Icon          string  `json:"icon"`
}

// UnmarshalJSON accepts loose numbers for duration and the budget breakdown,
// the same way FlexInt does for costs.
func (p *ItineraryPlan) UnmarshalJSON(data []byte) error {
	type plain ItineraryPlan
	aux := struct {
		*plain
		DurationDays    FlexInt            `json:"duration"`
		BudgetBreakdown map[string]FlexInt `json:"budget_breakdown"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.DurationDays = int(aux.DurationDays)
	p.BudgetBreakdown = nil
	if aux.BudgetBreakdown != nil {
		p.BudgetBreakdown = make(map[string]int, len(aux.BudgetBreakdown))
		for k, v := range aux.BudgetBreakdown {
			p.BudgetBreakdown[k] = int(v)
		}
	}
	return nil
}

// UnmarshalJSON accepts a loose day number such as "1".
func (d *DayPlan) UnmarshalJSON(data []byte) error {
	type plain DayPlan
	aux := struct {
		*plain
		DayIndex FlexInt `json:"day"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.DayIndex = int(aux.DayIndex)
	return nil
}

// Accommodation is a lodging suggestion.
type Accommodation struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Area       string `json:"area"`
	PriceRange string `json:"price_range"`
	Reason     string `json:"reason"`
}

// FlexInt decodes from a JSON number, a float, or a numeric string such as
// "300" or "NT$1,200". Anything else decodes to zero.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding numeric string: %w", err)
		}
		*f = FlexInt(parseLooseInt(s))
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding number: %w", err)
	}
	*f = FlexInt(math.Round(n))
	return nil
}

func parseLooseInt(s string) int {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
			continue
		}
		if r != ',' && b.Len() > 0 {
			break
		}
	}
	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return int(math.Round(n))
}

// Normalize renumbers days 1..N and orders each day's activities by start
// time. Activities whose time does not parse as HH:MM keep their relative
// order after the timed ones.
func (p *ItineraryPlan) Normalize() {
	for i := range p.Days {
		p.Days[i].DayIndex = i + 1
		slices.SortStableFunc(p.Days[i].Activities, func(a, b Activity) int {
			return compareClock(a.Time, b.Time)
		})
	}
}

func compareClock(a, b string) int {
	ma, okA := clockMinutes(a)
	mb, okB := clockMinutes(b)
	switch {
	case okA && okB:
		return ma - mb
	case okA:
		return -1
	case okB:
		return 1
	}
	return 0
}

func clockMinutes(s string) (int, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// ApplyBudget sets the total and splits it 30/30/20/20 across
// accommodation, food, transport and activities.
func (p *ItineraryPlan) ApplyBudget(total int) {
	p.TotalBudget = FlexInt(total)
	p.BudgetBreakdown = SplitBudget(total)
}

// SplitBudget divides total 30/30/20/20. Rounding remainders go to activities
// so the parts always add up to total.
func SplitBudget(total int) map[string]int {
	acc := total * 30 / 100
	food := total * 30 / 100
	transport := total * 20 / 100
	return map[string]int{
		BudgetAccommodation: acc,
		BudgetFood:          food,
		BudgetTransport:     transport,
		BudgetActivities:    total - acc - food - transport,
	}
}

// Clone returns a deep copy.
func (p ItineraryPlan) Clone() ItineraryPlan {
	out := p
	out.BudgetBreakdown = maps.Clone(p.BudgetBreakdown)
	out.Days = make([]DayPlan, len(p.Days))
	for i, d := range p.Days {
		d.Activities = slices.Clone(d.Activities)
		out.Days[i] = d
	}
	if p.Days == nil {
		out.Days = nil
	}
	out.AccommodationSuggestions = slices.Clone(p.AccommodationSuggestions)
	out.PackingList = slices.Clone(p.PackingList)
	out.ImportantNotes = slices.Clone(p.ImportantNotes)
	return out
}
