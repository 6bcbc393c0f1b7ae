package intake

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alexanderramin/trek/internal/domain"
	"github.com/alexanderramin/trek/internal/llm"
)

var fieldLabels = map[domain.Field]string{
	domain.FieldLocation:    "目的地",
	domain.FieldDuration:    "天數",
	domain.FieldDate:        "出發日期",
	domain.FieldPeople:      "人數",
	domain.FieldBudget:      "預算",
	domain.FieldPreferences: "偏好",
}

var templateQuestions = map[domain.Field]string{
	domain.FieldLocation:    "請問您想去哪個城市旅遊呢？（例如：台北、台南、花蓮、台東）",
	domain.FieldDate:        "請問預計什麼時候出發？（例如：12月15日、1月1日）",
	domain.FieldDuration:    "預計玩幾天呢？（例如：2天、3天、4天）",
	domain.FieldPeople:      "請問有幾位要一起去呢？（例如：1人、2人、4人）",
	domain.FieldBudget:      "預算大約多少呢？（例如：每人 1 萬、1.5 萬或 2 萬）",
	domain.FieldPreferences: "比較偏好哪種旅遊風格呢？（例如：美食、自然風光、文化體驗）",
}

const followUpSystemPrompt = "You are a helpful travel assistant that asks questions in Traditional Chinese."

const (
	minQuestionRunes     = 5
	maxRepeatedPunctRuns = 50
)

// TemplateQuestion returns the fixed question for a field.
func TemplateQuestion(f domain.Field) string {
	if q, ok := templateQuestions[f]; ok {
		return q
	}
	return "請提供您的" + fieldLabels[f] + "資訊"
}

// NextQuestion returns the question for the first missing field, or
// ("", false) when nothing is missing. With a non-nil generator it asks for
// a phrased question and falls back to the fixed template whenever the call
// fails or the answer looks degenerate.
func NextQuestion(ctx context.Context, missing []domain.Field, state domain.TripRequirement, gen llm.TextGenerator) (string, bool) {
	if len(missing) == 0 {
		return "", false
	}
	field := missing[0]
	fallback := TemplateQuestion(field)
	if gen == nil {
		return fallback, true
	}

	resp, err := gen.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskFollowUp,
		SystemPrompt: followUpSystemPrompt,
		UserPrompt:   buildFollowUpPrompt(field, state),
	})
	if err != nil {
		return fallback, true
	}
	q := cleanQuestion(resp.Text)
	if !plausibleQuestion(q) {
		return fallback, true
	}
	return q, true
}

func buildFollowUpPrompt(field domain.Field, state domain.TripRequirement) string {
	known := strings.Join(knownValues(state), ", ")
	if known == "" {
		known = "無"
	}
	label := fieldLabels[field]
	return fmt.Sprintf(`你是旅遊助手。用一句話親切詢問用戶「%s」。

已知：%s
缺少：%s

要求：
- 只問一個問題
- 給 2-3 個選項
- 不超過 40 字
- 語氣親切
- 使用繁體中文

例如：「預計玩幾天呢？（例如 2 天、3 天、4 天）」`, label, known, label)
}

func knownValues(r domain.TripRequirement) []string {
	var vals []string
	if r.Location != "" {
		vals = append(vals, r.Location)
	}
	if r.DurationDays > 0 {
		vals = append(vals, fmt.Sprintf("%d天", r.DurationDays))
	}
	if r.Date != "" {
		vals = append(vals, r.Date)
	}
	if r.PeopleCount > 0 {
		vals = append(vals, fmt.Sprintf("%d人", r.PeopleCount))
	}
	if r.BudgetAmount > 0 {
		vals = append(vals, fmt.Sprintf("NT$%d", r.BudgetAmount))
	}
	if r.TripType != "" {
		vals = append(vals, r.TripType.Label())
	}
	for _, p := range r.Preferences {
		vals = append(vals, p.Label())
	}
	return vals
}

func cleanQuestion(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'「」“”")
}

// plausibleQuestion rejects empty or very short answers and answers made
// mostly of one repeated punctuation mark.
func plausibleQuestion(q string) bool {
	total := utf8.RuneCountInString(q)
	if total < minQuestionRunes {
		return false
	}
	counts := map[rune]int{}
	for _, r := range q {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			counts[r]++
		}
	}
	for _, n := range counts {
		if n > maxRepeatedPunctRuns || n*2 > total {
			return false
		}
	}
	return true
}
