package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/trek/internal/domain"
)

var fixedNow = time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)

func testExtractor() Extractor {
	return Extractor{Now: func() time.Time { return fixedNow }}
}

func TestExtract_EmptyMessage(t *testing.T) {
	got := testExtractor().Extract("")
	assert.True(t, got.IsEmpty())
	assert.Equal(t, "", got.Raw)

	got = testExtractor().Extract("   ")
	assert.True(t, got.IsEmpty())
}

func TestExtract_Location(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"我想去台東玩", "台東"},
		{"想去臺南走走", "台南"},
		{"日月潭好美", "日月潭"},
		{"阿里山看日出", "阿里山"},
		{"先去花蓮再去台北", "花蓮"},
		{"想出去玩", ""},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			assert.Equal(t, tc.want, testExtractor().Extract(tc.msg).Location)
		})
	}
}

func TestExtract_Duration(t *testing.T) {
	cases := []struct {
		msg  string
		want int
	}{
		{"2天", 2},
		{"5天4夜", 5},
		{"10日遊", 10},
		{"三天兩夜", 3},
		{"玩 3 天", 3},
		{"12月15日出發", 0},
		{"12月15日出發，玩4日", 4},
		{"先3天後來改5天", 3},
		{"今天想出去", 0},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			assert.Equal(t, tc.want, testExtractor().Extract(tc.msg).DurationDays)
		})
	}
}

func TestExtract_People(t *testing.T) {
	cases := []struct {
		msg  string
		want int
	}{
		{"我們4人", 4},
		{"3位大人", 3},
		{"一個人旅行", 1},
		{"10個人", 10},
		{"兩人同行", 2},
		{"和家人", 0},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			assert.Equal(t, tc.want, testExtractor().Extract(tc.msg).PeopleCount)
		})
	}
}

func TestExtract_Budget(t *testing.T) {
	cases := []struct {
		msg  string
		want int
	}{
		{"預算2萬", 20000},
		{"預算1.5萬", 15000},
		{"一萬五，喜歡自然", 15000},
		{"兩萬", 20000},
		{"預算二十萬", 200000},
		{"預算三十萬", 300000},
		{"十五萬左右", 150000},
		{"二十五萬三", 253000},
		{"十萬", 100000},
		{"預算15000元", 15000},
		{"預算100", 0},
		{"2025-12-15出發", 0},
		{"2026年出發 預算8000", 8000},
		{"預算 1 萬，另外有 30000", 10000},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			assert.Equal(t, tc.want, testExtractor().Extract(tc.msg).BudgetAmount)
		})
	}
}

func TestExtract_TripType(t *testing.T) {
	cases := []struct {
		msg  string
		want domain.TripType
	}{
		{"和家人一起", domain.TripFamily},
		{"畢業旅行", domain.TripGraduation},
		{"和男友出遊", domain.TripCouple},
		{"跟朋友去", domain.TripFriends},
		{"一個人旅行", domain.TripSolo},
		{"蜜月旅行", domain.TripHoneymoon},
		{"帶小孩出去玩", domain.TripWithChildren},
		{"公司員工旅遊", domain.TripCorporate},
		{"隨便走走", ""},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			got := testExtractor().Extract(tc.msg)
			assert.Equal(t, tc.want, got.TripType)
		})
	}
}

func TestExtract_PreferencesMultiLabel(t *testing.T) {
	got := testExtractor().Extract("想吃小吃、逛夜市，也想看海和古蹟")
	assert.Equal(t, []domain.Preference{domain.PrefFood, domain.PrefNature, domain.PrefCulture}, got.Preferences)

	assert.Nil(t, testExtractor().Extract("台東2天").Preferences)
	assert.Equal(t, []domain.Preference{domain.PrefPhotography}, testExtractor().Extract("想去拍照").Preferences)
}

func TestExtract_SpecialNeeds(t *testing.T) {
	cases := []struct {
		msg  string
		want []domain.SpecialNeed
	}{
		{"需要無障礙", []domain.SpecialNeed{domain.NeedAccessibility}},
		{"我吃素", []domain.SpecialNeed{domain.NeedVegetarian}},
		{"會帶寵物", []domain.SpecialNeed{domain.NeedPet}},
		{"有小孩", []domain.SpecialNeed{domain.NeedChildren}},
		{"吃素又有小孩", []domain.SpecialNeed{domain.NeedVegetarian, domain.NeedChildren}},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			assert.Equal(t, tc.want, testExtractor().Extract(tc.msg).SpecialNeeds)
		})
	}
}

func TestExtract_Date(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"12月15日出發", "2025-12-15"},
		{"1月1日出發", "2026-01-01"},
		{"12/24 出發", "2025-12-24"},
		{"2026-02-03出發", "2026-02-03"},
		{"明天出發", "2025-11-21"},
		{"後天出發", "2025-11-22"},
		{"大後天出發", "2025-11-23"},
		{"2月30日", ""},
		{"台東2天", ""},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			assert.Equal(t, tc.want, testExtractor().Extract(tc.msg).Date)
		})
	}
}

func TestExtract_FullWidthDigits(t *testing.T) {
	got := testExtractor().Extract("台南３天，預算２萬")
	assert.Equal(t, "台南", got.Location)
	assert.Equal(t, 3, got.DurationDays)
	assert.Equal(t, 20000, got.BudgetAmount)
}

func TestExtract_OneShotScenario(t *testing.T) {
	got := testExtractor().Extract("台南3天2人，預算2萬，喜歡美食和古蹟")
	assert.Equal(t, "台南", got.Location)
	assert.Equal(t, 3, got.DurationDays)
	assert.Equal(t, 2, got.PeopleCount)
	assert.Equal(t, 20000, got.BudgetAmount)
	assert.Equal(t, []domain.Preference{domain.PrefFood, domain.PrefCulture}, got.Preferences)
	assert.Equal(t, "台南3天2人，預算2萬，喜歡美食和古蹟", got.Raw)
}

func TestExtract_FamilyTripOneShot(t *testing.T) {
	got := testExtractor().Extract("我想和家人去台南玩3天，預算2萬，想吃美食")
	assert.Equal(t, "台南", got.Location)
	assert.Equal(t, 3, got.DurationDays)
	assert.Equal(t, 20000, got.BudgetAmount)
	assert.Equal(t, domain.TripFamily, got.TripType)
	assert.Equal(t, "家族旅遊", got.TripType.Label())
	assert.Contains(t, got.Preferences, domain.PrefFood)
	assert.Zero(t, got.PeopleCount)
}

func TestExtract_LongInputTerminates(t *testing.T) {
	msg := strings.Repeat("我想要去一個很遠很遠的地方", 5000) + "台東3天"
	done := make(chan domain.PartialRequirement, 1)
	go func() { done <- testExtractor().Extract(msg) }()

	select {
	case got := <-done:
		require.Equal(t, "台東", got.Location)
		assert.Equal(t, 3, got.DurationDays)
	case <-time.After(5 * time.Second):
		t.Fatal("extraction did not finish")
	}
}

func TestExtract_IsPure(t *testing.T) {
	a := testExtractor().Extract("花蓮3天 美食")
	b := testExtractor().Extract("花蓮3天 美食")
	assert.Equal(t, a, b)
}

func TestParseSpelled(t *testing.T) {
	cases := map[string]int{"一": 1, "兩": 2, "十": 10, "十二": 12, "二十": 20, "三十五": 35}
	for in, want := range cases {
		got, err := parseSpelled(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseSpelled("百")
	assert.Error(t, err)
}
