package itinerary

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/alexanderramin/trek/internal/domain"
	"github.com/alexanderramin/trek/internal/intake"
)

const itinerarySystemPrompt = "你是專業的台灣旅遊規劃師，只輸出 JSON。"

func buildItineraryPrompt(req SynthesisRequest) string {
	budgetText := "彈性預算"
	total := req.DurationDays * 10000
	if req.Budget > 0 {
		budgetText = intake.FormatAmount(req.Budget)
		total = req.Budget
	}
	prefText := strings.Join(lo.Map(req.Preferences, func(p domain.Preference, _ int) string {
		return p.Label()
	}), "、")
	prefDisplay := prefText
	if prefDisplay == "" {
		prefDisplay = "綜合旅遊"
	}

	var b strings.Builder
	b.WriteString("**用戶需求**：\n")
	fmt.Fprintf(&b, "- 目的地：%s\n", req.Location)
	fmt.Fprintf(&b, "- 天數：%d天\n", req.DurationDays)
	fmt.Fprintf(&b, "- 預算：%s\n", budgetText)
	fmt.Fprintf(&b, "- 偏好：%s\n", prefDisplay)
	if len(req.SpecialNeeds) > 0 {
		needs := lo.Map(req.SpecialNeeds, func(n domain.SpecialNeed, _ int) string { return n.Label() })
		fmt.Fprintf(&b, "- 特殊需求：%s\n", strings.Join(needs, "、"))
	}
	b.WriteString("\n請生成完整的 JSON 格式行程。**只回傳 JSON，不要其他文字。**\n\nJSON 格式：\n")
	fmt.Fprintf(&b, `{
  "trip_name": "%s%d日遊",
  "location": "%s",
  "duration": %d,
  "total_budget": %d,
  "budget_breakdown": {"accommodation": 數字, "food": 數字, "transport": 數字, "activities": 數字},
  "daily_itinerary": [
    {
      "day": 1,
      "theme": "主題",
      "activities": [
        {"time": "09:00", "name": "活動", "type": "類型", "location": "地點", "duration": "時間", "cost": 費用, "note": "說明", "icon": "emoji"}
      ]
    }
  ],
  "accommodation_suggestions": [{"name": "名稱", "type": "類型", "area": "區域", "price_range": "價格", "reason": "理由"}],
  "transport_tips": "交通建議",
  "packing_list": ["物品"],
  "important_notes": ["注意事項"]
}
`, req.Location, req.DurationDays, req.Location, req.DurationDays, total)
	fmt.Fprintf(&b, `
規劃原則：
1. 根據偏好「%s」設計行程
2. 每天 4-5 個活動
3. 考慮交通動線
4. 包含三餐建議
5. 預算分配合理
6. daily_itinerary 必須剛好 %d 天

**只回傳 JSON，不要 markdown 標記。**`, prefText, req.DurationDays)
	return b.String()
}
