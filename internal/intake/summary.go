package intake

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/alexanderramin/trek/internal/domain"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a NT$ amount with thousands separators.
func FormatAmount(n int) string {
	return "NT$ " + FormatNumber(n)
}

// FormatNumber renders n with thousands separators.
func FormatNumber(n int) string {
	return amountPrinter.Sprintf("%d", n)
}

// FormatCollected summarizes the collected slots, one line per slot.
func FormatCollected(req domain.TripRequirement) string {
	var lines []string
	if req.Location != "" {
		lines = append(lines, "📍 目的地："+req.Location)
	}
	if req.Date != "" {
		lines = append(lines, "📅 出發日期："+req.Date)
	}
	if req.DurationDays > 0 {
		lines = append(lines, amountPrinter.Sprintf("⏱️ 天數：%d天", req.DurationDays))
	}
	if req.PeopleCount > 0 {
		lines = append(lines, amountPrinter.Sprintf("👥 人數：%d人", req.PeopleCount))
	}
	if req.BudgetAmount > 0 {
		lines = append(lines, "💰 預算："+FormatAmount(req.BudgetAmount))
	}
	if req.TripType != "" {
		lines = append(lines, "🧳 類型："+req.TripType.Label())
	}
	if len(req.Preferences) > 0 {
		labels := lo.Map(req.Preferences, func(p domain.Preference, _ int) string { return p.Label() })
		lines = append(lines, "🎯 偏好："+strings.Join(labels, "、"))
	}
	if len(req.SpecialNeeds) > 0 {
		labels := lo.Map(req.SpecialNeeds, func(n domain.SpecialNeed, _ int) string { return n.Label() })
		lines = append(lines, "⚠️ 特殊需求："+strings.Join(labels, "、"))
	}
	if len(lines) == 0 {
		return "尚未收集資訊"
	}
	return strings.Join(lines, "\n")
}
