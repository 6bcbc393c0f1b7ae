// Package cache remembers generated itineraries so that an identical
// complete requirement does not call the backend twice.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/trek/internal/domain"
)

// DefaultTTL is how long a generated plan is reused.
const DefaultTTL = 6 * time.Hour

// PlanCache stores plans by requirement key. Get returns nil, nil on a miss.
type PlanCache interface {
	Get(ctx context.Context, key string) (*domain.ItineraryPlan, error)
	Set(ctx context.Context, key string, plan *domain.ItineraryPlan) error
}

// PlanKey identifies the parts of a requirement that shape the generated
// plan. Preference and need order does not matter.
func PlanKey(req domain.TripRequirement) string {
	prefs := make([]string, len(req.Preferences))
	for i, p := range req.Preferences {
		prefs[i] = string(p)
	}
	needs := make([]string, len(req.SpecialNeeds))
	for i, n := range req.SpecialNeeds {
		needs[i] = string(n)
	}
	slices.Sort(prefs)
	slices.Sort(needs)

	raw := fmt.Sprintf("%s|%d|%d|%s|%s",
		strings.TrimSpace(req.Location), req.DurationDays, req.BudgetAmount,
		strings.Join(prefs, ","), strings.Join(needs, ","))
	sum := sha256.Sum256([]byte(raw))
	return "plan:" + hex.EncodeToString(sum[:16])
}
