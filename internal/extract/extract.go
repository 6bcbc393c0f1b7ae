// Package extract pulls structured trip parameters out of a single free-text
// message. Extraction is pure: it never fails, it only finds less.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/text/width"

	"github.com/alexanderramin/trek/internal/domain"
)

// Gazetteer lists the recognized destinations. When two names start at the
// same position the earlier entry wins.
var Gazetteer = []string{
	"台北", "台南", "高雄", "花蓮", "台中", "墾丁", "台東", "宜蘭",
	"南投", "嘉義", "彰化", "新竹", "基隆", "桃園", "苗栗", "雲林",
	"屏東", "澎湖", "金門", "馬祖", "綠島", "蘭嶼", "日月潭", "阿里山",
}

const spelledDigits = "一二兩三四五六七八九十"

var (
	reDays       = regexp.MustCompile(`(\d+)\s*天`)
	reDaysSpelt  = regexp.MustCompile(`([` + spelledDigits + `]+)\s*天`)
	reDaysAlt    = regexp.MustCompile(`(\d+)\s*日`)
	rePeople     = regexp.MustCompile(`(\d+)\s*個?\s*(?:人|位)`)
	rePeopleSpel = regexp.MustCompile(`([` + spelledDigits + `]+)\s*個?\s*(?:人|位)`)
	reWan        = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*萬`)
	reWanSpelt   = regexp.MustCompile(`([一二兩三四五六七八九十]+)萬([一二三四五六七八九])?`)
	reDigits     = regexp.MustCompile(`\d+`)
	reISODate    = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	reMonthDay   = regexp.MustCompile(`(\d{1,2})\s*月\s*(\d{1,2})\s*[日號]?`)
	reSlashDate  = regexp.MustCompile(`(?:^|[^\d/])(\d{1,2})/(\d{1,2})(?:$|[^\d/])`)
)

var relativeDays = []struct {
	word   string
	offset int
}{
	{"大後天", 3},
	{"後天", 2},
	{"明天", 1},
	{"今天", 0},
}

// Extractor extracts requirements relative to a clock. The zero value uses
// time.Now.
type Extractor struct {
	Now func() time.Time
}

// Extract runs the default extractor.
func Extract(message string) domain.PartialRequirement {
	return Extractor{}.Extract(message)
}

// Extract returns every slot recognized in message. Slots that are not
// recognized stay at their zero value.
func (e Extractor) Extract(message string) domain.PartialRequirement {
	out := domain.PartialRequirement{Raw: message}
	text := Normalize(message)
	if strings.TrimSpace(text) == "" {
		return out
	}

	out.Location = matchLocation(text)
	out.DurationDays = matchDuration(text)
	out.PeopleCount = matchPeople(text)
	out.BudgetAmount = matchBudget(text)
	out.Date = e.matchDate(text)

	lower := strings.ToLower(text)
	out.TripType = firstTag(domain.TripTypeRules, lower)
	out.Preferences = allTags(domain.PreferenceRules, lower)
	out.SpecialNeeds = allTags(domain.SpecialNeedRules, lower)
	return out
}

// Normalize folds full-width characters to their ASCII forms and the
// traditional 臺 to 台.
func Normalize(s string) string {
	return strings.ReplaceAll(width.Fold.String(s), "臺", "台")
}

func (e Extractor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func matchLocation(text string) string {
	best, bestAt := "", -1
	for _, place := range Gazetteer {
		at := strings.Index(text, place)
		if at >= 0 && (bestAt < 0 || at < bestAt) {
			best, bestAt = place, at
		}
	}
	return best
}

func matchDuration(text string) int {
	if n := firstPositive(reDays, text, strconv.Atoi); n > 0 {
		return n
	}
	if n := firstPositive(reDaysSpelt, text, parseSpelled); n > 0 {
		return n
	}
	for _, m := range reDaysAlt.FindAllStringSubmatchIndex(text, -1) {
		// 12月15日 is a date, not a duration.
		if strings.HasSuffix(strings.TrimSpace(text[:m[0]]), "月") {
			continue
		}
		if n, err := strconv.Atoi(text[m[2]:m[3]]); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func matchPeople(text string) int {
	if n := firstPositive(rePeople, text, strconv.Atoi); n > 0 {
		return n
	}
	return firstPositive(rePeopleSpel, text, parseSpelled)
}

func matchBudget(text string) int {
	if m := reWan.FindStringSubmatch(text); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil && f > 0 {
			return int(f * 10000)
		}
	}
	// 一萬五 is 15000: a digit right after 萬 counts thousands.
	if m := reWanSpelt.FindStringSubmatch(text); m != nil {
		if high, err := parseSpelled(m[1]); err == nil {
			low, _ := parseSpelled(m[2])
			return high*10000 + low*1000
		}
	}
	for _, loc := range reDigits.FindAllStringIndex(text, -1) {
		if loc[1]-loc[0] < 4 || partOfDate(text, loc[0], loc[1]) {
			continue
		}
		n, err := strconv.Atoi(text[loc[0]:loc[1]])
		if err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// partOfDate reports whether the digit run text[start:end] sits inside a
// date expression such as 2025-12-15 or 2025年.
func partOfDate(text string, start, end int) bool {
	if start > 0 && strings.ContainsAny(text[start-1:start], "-/") {
		return true
	}
	rest := text[end:]
	return strings.HasPrefix(rest, "-") || strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, "年")
}

func (e Extractor) matchDate(text string) string {
	now := e.now()
	if m := reISODate.FindStringSubmatch(text); m != nil {
		y, _ := strconv.Atoi(m[1])
		if d, ok := calendarDate(y, m[2], m[3], now.Location()); ok {
			return d.Format(domain.DateLayout)
		}
	}
	for _, re := range []*regexp.Regexp{reMonthDay, reSlashDate} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		d, ok := calendarDate(now.Year(), m[1], m[2], now.Location())
		if !ok {
			continue
		}
		if d.Before(truncateDay(now)) {
			d = d.AddDate(1, 0, 0)
		}
		return d.Format(domain.DateLayout)
	}
	for _, rd := range relativeDays {
		if strings.Contains(text, rd.word) {
			return truncateDay(now).AddDate(0, 0, rd.offset).Format(domain.DateLayout)
		}
	}
	return ""
}

func calendarDate(year int, month, day string, loc *time.Location) (time.Time, bool) {
	m, err1 := strconv.Atoi(month)
	d, err2 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(m), d, 0, 0, 0, 0, loc)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func firstPositive(re *regexp.Regexp, text string, parse func(string) (int, error)) int {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if n, err := parse(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func firstTag[T ~string](rules []domain.KeywordRule[T], text string) T {
	rule, ok := lo.Find(rules, func(r domain.KeywordRule[T]) bool {
		return containsAny(text, r.Keywords)
	})
	if !ok {
		return ""
	}
	return rule.Tag
}

func allTags[T ~string](rules []domain.KeywordRule[T], text string) []T {
	matched := lo.FilterMap(rules, func(r domain.KeywordRule[T], _ int) (T, bool) {
		return r.Tag, containsAny(text, r.Keywords)
	})
	if len(matched) == 0 {
		return nil
	}
	return matched
}

func containsAny(text string, keywords []string) bool {
	return lo.ContainsBy(keywords, func(k string) bool {
		return strings.Contains(text, k)
	})
}
