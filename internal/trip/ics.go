package trip

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/alexanderramin/trek/internal/domain"
)

const defaultActivityLength = time.Hour

var (
	reHours   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:小時|hr|h)`)
	reMinutes = regexp.MustCompile(`(\d+)\s*(?:分鐘|分|min|m)`)
)

// Taipei is the zone activity times are written in.
var Taipei = loadTaipei()

func loadTaipei() *time.Location {
	if loc, err := time.LoadLocation("Asia/Taipei"); err == nil {
		return loc
	}
	return time.FixedZone("CST", 8*60*60)
}

// ExportICS writes rec as an iCalendar document with one event per
// activity. Activities without a usable HH:MM time become all-day events.
func ExportICS(w io.Writer, rec domain.TripRecord, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//trek//itinerary//ZH-TW")
	cal.SetXWRCalName(rec.Name)
	cal.SetXWRTimezone(Taipei.String())

	for _, day := range rec.Itinerary {
		for i, act := range day.Activities {
			ev := cal.AddEvent(fmt.Sprintf("%s-d%d-a%d@trek", rec.ID, day.DayIndex, i+1))
			ev.SetDtStampTime(now.UTC())
			ev.SetSummary(act.Name)
			if loc := strings.TrimSpace(act.Location); loc != "" {
				ev.SetLocation(loc)
			} else {
				ev.SetLocation(rec.Location)
			}
			if desc := activityDescription(day, act); desc != "" {
				ev.SetDescription(desc)
			}

			start, ok := activityStart(day.Date, act.Time)
			if !ok {
				ev.SetAllDayStartAt(day.Date)
				ev.SetAllDayEndAt(day.Date.AddDate(0, 0, 1))
				continue
			}
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(ActivityLength(act.DurationLabel)))
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

func activityStart(date time.Time, clock string) (time.Time, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, Taipei), true
}

func activityDescription(day domain.TripDay, act domain.Activity) string {
	var parts []string
	if day.Theme != "" {
		parts = append(parts, fmt.Sprintf("Day %d：%s", day.DayIndex, day.Theme))
	}
	if act.Note != "" {
		parts = append(parts, act.Note)
	}
	if act.Cost > 0 {
		parts = append(parts, "費用：NT$ "+strconv.Itoa(int(act.Cost)))
	}
	return strings.Join(parts, "\n")
}

// ActivityLength reads labels such as "2小時", "1.5小時" or "30分鐘". Anything
// else is one hour.
func ActivityLength(label string) time.Duration {
	var total time.Duration
	if m := reHours.FindStringSubmatch(label); m != nil {
		if h, err := strconv.ParseFloat(m[1], 64); err == nil {
			total += time.Duration(h * float64(time.Hour))
		}
	}
	if m := reMinutes.FindStringSubmatch(label); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			total += time.Duration(n) * time.Minute
		}
	}
	if total <= 0 {
		return defaultActivityLength
	}
	return total
}
