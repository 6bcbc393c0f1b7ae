package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trek/internal/domain"
	"github.com/alexanderramin/trek/internal/trip"
)

const budgetBarWidth = 10

// FormatQuestion shows what has been collected so far and the next question.
func FormatQuestion(collected, question string) string {
	var b strings.Builder
	b.WriteString(RenderBox("已收集資訊", collected))
	b.WriteString("\n")
	b.WriteString(StylePurple.Render("? ") + question + "\n")
	return b.String()
}

// FormatTripSummary is the short overview printed after planning.
func FormatTripSummary(rec domain.TripRecord) string {
	s := trip.Summarize(rec)
	var b strings.Builder

	title := Bold(s.Name)
	if badge := SourceBadge(rec.Source); badge != "" {
		title += " " + badge
	}
	b.WriteString(title + "\n")
	fmt.Fprintf(&b, "%s  %s (%d天)\n", Dim("地點"), s.Location, s.Days)
	fmt.Fprintf(&b, "%s  %s\n", Dim("日期"), s.Dates)
	fmt.Fprintf(&b, "%s  %s  %s %s\n", Dim("預算"), Money(s.Budget),
		Dim("已花費"), Money(s.Spent))
	fmt.Fprintf(&b, "%s  %s\n", Dim("剩餘"), Money(s.Remaining))
	if s.Budget > 0 {
		fmt.Fprintf(&b, "      %s\n", RenderBudgetBar(s.SpentFraction, budgetBarWidth))
	}
	fmt.Fprintf(&b, "%s  %s\n", Dim("狀態"), StatusPill(s.Status))
	fmt.Fprintf(&b, "%s  %d 個活動，預估 %s\n", Dim("行程"), s.Activities, Money(s.PlannedCost))
	if s.UsedFallback {
		b.WriteString(StyleYellow.Render("目前無法連線至行程產生服務，已改用預設範本。") + "\n")
	}
	return b.String()
}

// FormatTrip renders the whole trip: summary, each day, and the extras.
func FormatTrip(rec domain.TripRecord) string {
	var b strings.Builder
	b.WriteString(FormatTripSummary(rec))

	for _, d := range trip.Days(rec) {
		b.WriteString("\n")
		heading := fmt.Sprintf("Day %d · %s %s", d.Index, d.Date, d.Weekday)
		if d.Theme != "" {
			heading += " · " + d.Theme
		}
		b.WriteString(Header(heading) + "\n")
		for _, a := range d.Activities {
			b.WriteString(formatActivity(a))
		}
		if d.Cost > 0 {
			b.WriteString(Dim(fmt.Sprintf("  小計 %s", Money(d.Cost))) + "\n")
		}
	}

	if len(rec.AccommodationSuggestions) > 0 {
		b.WriteString("\n" + Header("住宿建議") + "\n")
		for _, acc := range rec.AccommodationSuggestions {
			line := "  " + Bold(acc.Name)
			if acc.Type != "" || acc.Area != "" {
				line += Dim(fmt.Sprintf(" (%s)", strings.Trim(acc.Type+" · "+acc.Area, " ·")))
			}
			if acc.PriceRange != "" {
				line += "  " + acc.PriceRange
			}
			b.WriteString(line + "\n")
			if acc.Reason != "" {
				b.WriteString("    " + Dim(acc.Reason) + "\n")
			}
		}
	}
	if rec.TransportTips != "" {
		b.WriteString("\n" + Header("交通建議") + "\n  " + rec.TransportTips + "\n")
	}
	if len(rec.PackingList) > 0 {
		b.WriteString("\n" + Header("行李清單") + "\n  " + strings.Join(rec.PackingList, "、") + "\n")
	}
	if rec.Notes != "" {
		b.WriteString("\n" + Header("注意事項") + "\n")
		for _, n := range strings.Split(rec.Notes, "\n") {
			b.WriteString("  • " + n + "\n")
		}
	}
	if len(rec.Adjustments) > 0 {
		b.WriteString("\n" + Header("調整紀錄") + "\n")
		b.WriteString(FormatAdjustments(rec.Adjustments))
	}
	return b.String()
}

func formatActivity(a domain.Activity) string {
	clock := a.Time
	if clock == "" {
		clock = "--:--"
	}
	line := fmt.Sprintf("  %s  ", StyleBlue.Render(clock))
	if a.Icon != "" {
		line += a.Icon + " "
	}
	line += a.Name
	if a.DurationLabel != "" {
		line += Dim(" (" + a.DurationLabel + ")")
	}
	if a.Cost > 0 {
		line += "  " + Money(int(a.Cost))
	}
	line += "\n"
	if a.Note != "" {
		line += "         " + Dim(a.Note) + "\n"
	}
	return line
}

// FormatAdjustments lists a trip's change log, oldest first.
func FormatAdjustments(adjs []domain.Adjustment) string {
	rows := make([][]string, 0, len(adjs))
	for _, a := range adjs {
		amount := ""
		if a.Kind == domain.AdjustmentSpend {
			amount = Money(a.Amount)
		}
		rows = append(rows, []string{
			a.CreatedAt.Format("2006-01-02 15:04"),
			adjustmentLabel(a.Kind),
			amount,
			a.Detail,
		})
	}
	return RenderTable([]string{"時間", "類型", "金額", "說明"}, rows)
}

func adjustmentLabel(kind string) string {
	switch kind {
	case domain.AdjustmentSpend:
		return "花費"
	case domain.AdjustmentStatus:
		return "狀態"
	case domain.AdjustmentNote:
		return "備註"
	}
	return kind
}

// FormatTripList renders stored trips as a table keyed by short ID.
func FormatTripList(recs []*domain.TripRecord) string {
	if len(recs) == 0 {
		return Dim("目前沒有行程。") + "\n"
	}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		s := trip.Summarize(*r)
		rows = append(rows, []string{
			ShortID(r.ID),
			Truncate(r.Name, 20),
			r.Location,
			s.Dates,
			StatusPill(r.Status),
			RenderBudgetBar(s.SpentFraction, budgetBarWidth),
		})
	}
	return RenderTable([]string{"ID", "名稱", "地點", "日期", "狀態", "預算"}, rows)
}

// ShortID is the ID prefix shown in lists and accepted by trip commands.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
