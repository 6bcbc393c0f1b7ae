package itinerary

import (
	"fmt"
	"slices"

	"github.com/alexanderramin/trek/internal/domain"
	"github.com/alexanderramin/trek/internal/intake"
	"github.com/alexanderramin/trek/internal/template"
)

// FallbackChain produces a usable plan without calling the backend: an exact
// template, then an adapted template for the same location, then a generic
// plan.
type FallbackChain struct {
	lib *template.Library
}

// NewFallbackChain returns a chain over lib. A nil library skips straight to
// the generic plan.
func NewFallbackChain(lib *template.Library) *FallbackChain {
	return &FallbackChain{lib: lib}
}

// DegradedPlan always returns a plan with exactly days days (at least one).
// A budget of zero keeps the template's own figures.
func (c *FallbackChain) DegradedPlan(location string, days, budget int) (domain.ItineraryPlan, domain.PlanSource) {
	days = max(days, 1)
	var lib *template.Library
	if c != nil {
		lib = c.lib
	}

	if plan, ok := lib.Lookup(location, days); ok {
		if budget > 0 {
			plan.ApplyBudget(budget)
		}
		return plan, domain.SourceTemplate
	}

	if plan, ok := lib.ForLocation(location); ok {
		plan.Days = resizeDays(plan.Days, days)
		plan.DurationDays = days
		plan.Name = tripName(location, days)
		if budget > 0 {
			plan.ApplyBudget(budget)
		}
		plan.Normalize()
		return plan, domain.SourceTemplate
	}

	return GenericPlan(location, days, budget), domain.SourceGeneric
}

// resizeDays truncates days to n, or extends it by repeating the last day.
// The input must be non-empty; the result shares no activity slices with it.
func resizeDays(days []domain.DayPlan, n int) []domain.DayPlan {
	if len(days) >= n {
		return days[:n]
	}
	out := slices.Clone(days)
	last := days[len(days)-1]
	for len(out) < n {
		d := last
		d.DayIndex = len(out) + 1
		d.Activities = slices.Clone(last.Activities)
		out = append(out, d)
	}
	return out
}

func tripName(location string, days int) string {
	return fmt.Sprintf("%s%d日遊", location, days)
}

var genericDay = []domain.Activity{
	{Time: "09:00", Name: "早餐時光", Category: "美食", DurationLabel: "1小時", Cost: 150, Note: "探索在地早餐小吃", Icon: "🍳"},
	{Time: "10:30", Name: "上午景點", Category: "景點", DurationLabel: "2小時", Cost: 200, Note: "參觀當地主要景點", Icon: "🏛️"},
	{Time: "13:00", Name: "午餐時間", Category: "美食", DurationLabel: "1.5小時", Cost: 300, Note: "品嚐當地特色料理", Icon: "🍜"},
	{Time: "15:00", Name: "下午活動", Category: "景點", DurationLabel: "2小時", Cost: 150, Note: "休閒漫遊或文化體驗", Icon: "🎨"},
	{Time: "18:30", Name: "晚餐 & 夜市", Category: "美食", DurationLabel: "2小時", Cost: 400, Note: "夜市美食巡禮", Icon: "🌙"},
}

// GenericPlan builds the location-agnostic plan: five activities a day, a
// budget of days×5000 unless one is given.
func GenericPlan(location string, days, budget int) domain.ItineraryPlan {
	days = max(days, 1)
	total := budget
	if total <= 0 {
		total = days * intake.DefaultDailyBudget
	}

	plan := domain.ItineraryPlan{
		Name:         tripName(location, days),
		Location:     location,
		DurationDays: days,
		Days:         make([]domain.DayPlan, days),
		AccommodationSuggestions: []domain.Accommodation{{
			Name:       location + "市中心旅館",
			Type:       "商務旅館",
			Area:       "市中心",
			PriceRange: fmt.Sprintf("%s-%s/晚", intake.FormatAmount(total*15/100), intake.FormatNumber(total*20/100)),
			Reason:     "交通便利，近主要景點",
		}},
		TransportTips:  "建議使用大眾運輸工具，可購買一日券較划算",
		PackingList:    []string{"防曬用品", "雨具", "舒適步鞋", "相機", "充電器"},
		ImportantNotes: []string{"注意天氣變化", "提前訂房享優惠", "夜市記得空腹去", "保持彈性調整行程"},
	}
	for i := range plan.Days {
		acts := slices.Clone(genericDay)
		for j := range acts {
			acts[j].Location = location
		}
		plan.Days[i] = domain.DayPlan{
			DayIndex:   i + 1,
			Theme:      fmt.Sprintf("Day %d - %s探索", i+1, location),
			Activities: acts,
		}
	}
	plan.ApplyBudget(total)
	return plan
}
