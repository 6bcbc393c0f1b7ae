// Package template holds the pre-authored itinerary library used when the
// generative backend cannot produce a plan.
package template

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alexanderramin/trek/internal/domain"
)

// ErrCorruptLibrary indicates the library file exists but cannot be used.
var ErrCorruptLibrary = errors.New("corrupt itinerary template library")

//go:embed builtin_templates.json
var builtinData []byte

// Library maps a location and a day-count label ("3天") to a plan. It is
// read-only after loading; lookups return deep copies.
type Library struct {
	plans map[string]map[string]domain.ItineraryPlan
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{plans: map[string]map[string]domain.ItineraryPlan{}}
}

// Builtin returns the library shipped with the binary.
func Builtin() *Library {
	lib, err := Parse(builtinData)
	if err != nil {
		panic(fmt.Sprintf("builtin template library: %v", err))
	}
	return lib
}

// Load reads a library file. A missing file yields an empty library; a file
// that does not parse or validate yields ErrCorruptLibrary.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewLibrary(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading template library %s: %w", path, err)
	}
	lib, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// Parse decodes and validates library JSON.
func Parse(data []byte) (*Library, error) {
	raw := map[string]map[string]domain.ItineraryPlan{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptLibrary, err)
	}
	if errs := Validate(raw); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrCorruptLibrary, errors.Join(errs...))
	}
	lib := NewLibrary()
	for loc, byDays := range raw {
		lib.plans[loc] = map[string]domain.ItineraryPlan{}
		for label, plan := range byDays {
			plan.Normalize()
			lib.plans[loc][label] = plan
		}
	}
	return lib, nil
}

// Validate checks every plan in a raw library. Returns a slice of errors
// (empty if valid).
func Validate(raw map[string]map[string]domain.ItineraryPlan) []error {
	v := validator.New()
	var errs []error
	for loc, byDays := range raw {
		for label, plan := range byDays {
			days, ok := ParseDayLabel(label)
			if !ok {
				errs = append(errs, fmt.Errorf("%s/%s: day label must look like \"3天\"", loc, label))
				continue
			}
			if err := v.Struct(plan); err != nil {
				errs = append(errs, fmt.Errorf("%s/%s: %w", loc, label, err))
				continue
			}
			if len(plan.Days) != days {
				errs = append(errs, fmt.Errorf("%s/%s: has %d days", loc, label, len(plan.Days)))
			}
		}
	}
	return errs
}

// DayLabel returns the library key for a day count.
func DayLabel(days int) string {
	return strconv.Itoa(days) + "天"
}

// ParseDayLabel is the inverse of DayLabel.
func ParseDayLabel(label string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSuffix(label, "天"))
	if err != nil || n < 1 || !strings.HasSuffix(label, "天") {
		return 0, false
	}
	return n, true
}

// Lookup returns a copy of the plan for exactly this location and day count.
func (l *Library) Lookup(location string, days int) (domain.ItineraryPlan, bool) {
	if l == nil {
		return domain.ItineraryPlan{}, false
	}
	plan, ok := l.plans[location][DayLabel(days)]
	if !ok {
		return domain.ItineraryPlan{}, false
	}
	return plan.Clone(), true
}

// ForLocation returns a copy of the location's plan with the fewest days.
func (l *Library) ForLocation(location string) (domain.ItineraryPlan, bool) {
	if l == nil {
		return domain.ItineraryPlan{}, false
	}
	counts := l.DayCounts(location)
	if len(counts) == 0 {
		return domain.ItineraryPlan{}, false
	}
	return l.Lookup(location, counts[0])
}

// DayCounts lists the day counts available for a location, ascending.
func (l *Library) DayCounts(location string) []int {
	if l == nil {
		return nil
	}
	var counts []int
	for label := range l.plans[location] {
		if n, ok := ParseDayLabel(label); ok {
			counts = append(counts, n)
		}
	}
	slices.Sort(counts)
	return counts
}

// Locations lists every location in the library, sorted.
func (l *Library) Locations() []string {
	if l == nil {
		return nil
	}
	locs := make([]string, 0, len(l.plans))
	for loc := range l.plans {
		locs = append(locs, loc)
	}
	slices.Sort(locs)
	return locs
}

// Len returns the number of plans in the library.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, byDays := range l.plans {
		n += len(byDays)
	}
	return n
}
