// Package intake accumulates trip requirements across conversation turns and
// decides what to ask next.
package intake

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/alexanderramin/trek/internal/domain"
)

// DefaultDailyBudget is the per-person, per-day budget assumed when the user
// gives none.
const DefaultDailyBudget = 5000

// Merge folds one turn's extraction into the accumulated requirement.
// Scalar slots present in incoming replace the current value; set-valued
// slots are unioned in order of first appearance. Nothing is ever cleared
// and neither argument is modified.
func Merge(current domain.TripRequirement, incoming domain.PartialRequirement) domain.TripRequirement {
	out := current.Clone()
	in := incoming.TripRequirement

	out.Location = domain.CoalesceStr(in.Location, current.Location)
	out.DurationDays = domain.CoalescePositive(in.DurationDays, current.DurationDays)
	out.Date = domain.CoalesceStr(in.Date, current.Date)
	out.PeopleCount = domain.CoalescePositive(in.PeopleCount, current.PeopleCount)
	out.BudgetAmount = domain.CoalescePositive(in.BudgetAmount, current.BudgetAmount)
	out.TripType = domain.CoalesceStr(in.TripType, current.TripType)
	out.Preferences = unionTags(current.Preferences, in.Preferences)
	out.SpecialNeeds = unionTags(current.SpecialNeeds, in.SpecialNeeds)
	return out
}

func unionTags[T comparable](current, incoming []T) []T {
	switch {
	case incoming == nil:
		return slices.Clone(current)
	case current == nil:
		return lo.Uniq(incoming)
	}
	return lo.Union(current, incoming)
}

// IsComplete reports whether the mandatory slots (location and duration) are
// present. When they are, the optional slots that are still absent are
// filled in place: the date a week after now, a head count implied by the
// trip type, a budget of DefaultDailyBudget per person per day, and an
// explicit empty preference set. When they are not, req is left untouched.
func IsComplete(req *domain.TripRequirement, now time.Time) bool {
	if req == nil || len(req.MissingFields()) > 0 {
		return false
	}
	if req.Date == "" {
		req.Date = now.AddDate(0, 0, 7).Format(domain.DateLayout)
	}
	if req.PeopleCount <= 0 {
		req.PeopleCount = DefaultPeople(req.TripType)
	}
	if req.BudgetAmount <= 0 {
		req.BudgetAmount = req.DurationDays * DefaultDailyBudget * req.PeopleCount
	}
	if req.Preferences == nil {
		req.Preferences = []domain.Preference{}
	}
	return true
}

// DefaultPeople returns the head count implied by a trip type.
func DefaultPeople(t domain.TripType) int {
	switch t {
	case domain.TripCouple, domain.TripHoneymoon:
		return 2
	case domain.TripFamily, domain.TripFriends:
		return 4
	default:
		return 1
	}
}
