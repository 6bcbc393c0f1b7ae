package intake

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/trek/internal/domain"
	"github.com/alexanderramin/trek/internal/extract"
	"github.com/alexanderramin/trek/internal/llm"
)

type mockGenerator struct {
	response string
	err      error
	requests []llm.GenerateRequest
}

func (m *mockGenerator) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "llama3.2"}, nil
}

func (m *mockGenerator) Available(context.Context) bool { return m.err == nil }

var now = time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

func partial(r domain.TripRequirement) domain.PartialRequirement {
	return domain.PartialRequirement{TripRequirement: r}
}

func TestMerge_ScalarsOverwriteOnlyWhenPresent(t *testing.T) {
	current := domain.TripRequirement{Location: "台東", DurationDays: 2, Extras: domain.Extras{BudgetAmount: 10000}}

	got := Merge(current, partial(domain.TripRequirement{DurationDays: 3}))
	assert.Equal(t, "台東", got.Location)
	assert.Equal(t, 3, got.DurationDays)
	assert.Equal(t, 10000, got.BudgetAmount)

	got = Merge(got, partial(domain.TripRequirement{Location: "花蓮"}))
	assert.Equal(t, "花蓮", got.Location)
	assert.Equal(t, 3, got.DurationDays)
}

func TestMerge_EmptyIncomingIsIdentity(t *testing.T) {
	current := domain.TripRequirement{
		Location: "台南", DurationDays: 3,
		Extras: domain.Extras{Preferences: []domain.Preference{domain.PrefFood}, TripType: domain.TripCouple},
	}
	assert.Equal(t, current, Merge(current, domain.PartialRequirement{}))
}

func TestMerge_SetsAreUnionedInFirstAppearanceOrder(t *testing.T) {
	current := domain.TripRequirement{Extras: domain.Extras{
		Preferences:  []domain.Preference{domain.PrefNature, domain.PrefFood},
		SpecialNeeds: []domain.SpecialNeed{domain.NeedPet},
	}}
	incoming := partial(domain.TripRequirement{Extras: domain.Extras{
		Preferences:  []domain.Preference{domain.PrefFood, domain.PrefCulture},
		SpecialNeeds: []domain.SpecialNeed{domain.NeedVegetarian, domain.NeedPet},
	}})

	got := Merge(current, incoming)

	assert.Equal(t, []domain.Preference{domain.PrefNature, domain.PrefFood, domain.PrefCulture}, got.Preferences)
	assert.Equal(t, []domain.SpecialNeed{domain.NeedPet, domain.NeedVegetarian}, got.SpecialNeeds)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	current := domain.TripRequirement{Extras: domain.Extras{Preferences: []domain.Preference{domain.PrefFood}}}
	incoming := partial(domain.TripRequirement{Extras: domain.Extras{Preferences: []domain.Preference{domain.PrefNature}}})

	got := Merge(current, incoming)
	got.Preferences[0] = domain.PrefShopping

	assert.Equal(t, []domain.Preference{domain.PrefFood}, current.Preferences)
	assert.Equal(t, []domain.Preference{domain.PrefNature}, incoming.Preferences)
}

func TestMerge_IsAssociativeForDisjointTurns(t *testing.T) {
	cases := []struct {
		name    string
		a, b, c domain.TripRequirement
	}{
		{
			name: "duration then budget",
			a:    domain.TripRequirement{Location: "台東"},
			b:    domain.TripRequirement{DurationDays: 3},
			c:    domain.TripRequirement{Extras: domain.Extras{BudgetAmount: 15000}},
		},
		{
			name: "preferences then party",
			a: domain.TripRequirement{Location: "台南", Extras: domain.Extras{
				Preferences: []domain.Preference{domain.PrefFood},
			}},
			b: domain.TripRequirement{Extras: domain.Extras{
				Preferences: []domain.Preference{domain.PrefCulture, domain.PrefFood, domain.PrefNature},
			}},
			c: domain.TripRequirement{Extras: domain.Extras{PeopleCount: 4, TripType: domain.TripFamily}},
		},
		{
			name: "from empty",
			b:    domain.TripRequirement{Location: "花蓮", Extras: domain.Extras{Date: "2025-12-20"}},
			c:    domain.TripRequirement{Extras: domain.Extras{SpecialNeeds: []domain.SpecialNeed{domain.NeedPet}}},
		},
		{
			name: "later turns overwrite earlier state",
			a:    domain.TripRequirement{Location: "台東", DurationDays: 2, Extras: domain.Extras{BudgetAmount: 10000}},
			b:    domain.TripRequirement{Location: "花蓮"},
			c: domain.TripRequirement{DurationDays: 5, Extras: domain.Extras{
				Preferences: []domain.Preference{domain.PrefNature},
			}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			left := Merge(Merge(tc.a, partial(tc.b)), partial(tc.c))
			right := Merge(tc.a, partial(Merge(tc.b, partial(tc.c))))
			assert.Equal(t, left, right)
		})
	}
}

func TestMerge_IsMonotonicOverTurns(t *testing.T) {
	req := domain.TripRequirement{}
	seen := map[domain.Preference]bool{}
	for _, msg := range []string{"想吃美食", "去台東", "看海", "3天", "逛街", "隨便"} {
		req = Merge(req, extract.Extract(msg))
		for p := range seen {
			assert.Contains(t, req.Preferences, p, "preference %s dropped after %q", p, msg)
		}
		for _, p := range req.Preferences {
			seen[p] = true
		}
	}
	assert.Equal(t, "台東", req.Location)
	assert.Equal(t, 3, req.DurationDays)
}

func TestIsComplete_FillsDefaultsOnlyWhenMandatoryPresent(t *testing.T) {
	req := domain.TripRequirement{Location: "台東"}
	assert.False(t, IsComplete(&req, now))
	assert.Equal(t, domain.TripRequirement{Location: "台東"}, req)

	req.DurationDays = 2
	require.True(t, IsComplete(&req, now))
	assert.Equal(t, "2025-11-27", req.Date)
	assert.Equal(t, 1, req.PeopleCount)
	assert.Equal(t, 10000, req.BudgetAmount)
	assert.NotNil(t, req.Preferences)
	assert.Empty(t, req.Preferences)
}

func TestIsComplete_KeepsProvidedValues(t *testing.T) {
	req := domain.TripRequirement{Location: "台東", DurationDays: 2, Extras: domain.Extras{
		Date: "2025-12-15", PeopleCount: 3, BudgetAmount: 15000, Preferences: []domain.Preference{domain.PrefNature},
	}}
	require.True(t, IsComplete(&req, now))
	assert.Equal(t, "2025-12-15", req.Date)
	assert.Equal(t, 3, req.PeopleCount)
	assert.Equal(t, 15000, req.BudgetAmount)
	assert.Equal(t, []domain.Preference{domain.PrefNature}, req.Preferences)
}

func TestIsComplete_PeopleFromTripType(t *testing.T) {
	cases := map[domain.TripType]int{
		domain.TripSolo:         1,
		domain.TripCouple:       2,
		domain.TripHoneymoon:    2,
		domain.TripFamily:       4,
		domain.TripFriends:      4,
		domain.TripGraduation:   1,
		domain.TripWithChildren: 1,
		"":                      1,
	}
	for tt, want := range cases {
		req := domain.TripRequirement{Location: "台北", DurationDays: 2, Extras: domain.Extras{TripType: tt}}
		require.True(t, IsComplete(&req, now))
		assert.Equal(t, want, req.PeopleCount, string(tt))
		assert.Equal(t, 2*DefaultDailyBudget*want, req.BudgetAmount, string(tt))
	}
}

func TestIsComplete_NilRequirement(t *testing.T) {
	assert.False(t, IsComplete(nil, now))
}

func TestNextQuestion_NothingMissing(t *testing.T) {
	q, ok := NextQuestion(context.Background(), nil, domain.TripRequirement{}, nil)
	assert.False(t, ok)
	assert.Empty(t, q)
}

func TestNextQuestion_TemplateWithoutGenerator(t *testing.T) {
	q, ok := NextQuestion(context.Background(),
		[]domain.Field{domain.FieldLocation, domain.FieldDuration}, domain.TripRequirement{}, nil)
	require.True(t, ok)
	assert.Equal(t, "請問您想去哪個城市旅遊呢？（例如：台北、台南、花蓮、台東）", q)

	q, _ = NextQuestion(context.Background(), []domain.Field{domain.FieldDuration}, domain.TripRequirement{Location: "台東"}, nil)
	assert.Equal(t, "預計玩幾天呢？（例如：2天、3天、4天）", q)
}

func TestNextQuestion_EveryFieldHasATemplate(t *testing.T) {
	for _, f := range []domain.Field{
		domain.FieldLocation, domain.FieldDuration, domain.FieldDate,
		domain.FieldPeople, domain.FieldBudget, domain.FieldPreferences,
	} {
		q := TemplateQuestion(f)
		assert.True(t, strings.HasSuffix(q, "）"), string(f))
	}
}

func TestNextQuestion_UsesGeneratedQuestion(t *testing.T) {
	gen := &mockGenerator{response: "  「台東要玩幾天呢？2天、3天還是4天？」\n"}
	q, ok := NextQuestion(context.Background(), []domain.Field{domain.FieldDuration},
		domain.TripRequirement{Location: "台東"}, gen)

	require.True(t, ok)
	assert.Equal(t, "台東要玩幾天呢？2天、3天還是4天？", q)
	require.Len(t, gen.requests, 1)
	assert.Equal(t, llm.TaskFollowUp, gen.requests[0].Task)
	assert.Contains(t, gen.requests[0].UserPrompt, "天數")
	assert.Contains(t, gen.requests[0].UserPrompt, "台東")
}

func TestNextQuestion_FallsBackOnBadGeneration(t *testing.T) {
	cases := map[string]*mockGenerator{
		"error":         {err: llm.ErrTimeout},
		"empty":         {response: ""},
		"too short":     {response: "幾天？"},
		"exclaim flood": {response: strings.Repeat("!", 60) + "幾天呢"},
		"mostly punct":  {response: "天數？？？？？？？？"},
	}
	want := TemplateQuestion(domain.FieldDuration)
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			q, ok := NextQuestion(context.Background(), []domain.Field{domain.FieldDuration},
				domain.TripRequirement{Location: "台東"}, gen)
			require.True(t, ok)
			assert.Equal(t, want, q)
		})
	}
}

func TestFormatCollected(t *testing.T) {
	assert.Equal(t, "尚未收集資訊", FormatCollected(domain.TripRequirement{}))

	got := FormatCollected(domain.TripRequirement{
		Location: "台東", DurationDays: 2,
		Extras: domain.Extras{
			Date: "2025-11-27", PeopleCount: 1, BudgetAmount: 15000,
			Preferences:  []domain.Preference{domain.PrefNature, domain.PrefFood},
			SpecialNeeds: []domain.SpecialNeed{domain.NeedVegetarian},
		},
	})
	assert.Contains(t, got, "📍 目的地：台東")
	assert.Contains(t, got, "⏱️ 天數：2天")
	assert.Contains(t, got, "💰 預算：NT$ 15,000")
	assert.Contains(t, got, "🎯 偏好：自然、美食")
	assert.Contains(t, got, "⚠️ 特殊需求：素食")
	assert.Len(t, strings.Split(got, "\n"), 7)
}

func TestThreeTurnConversation(t *testing.T) {
	req := domain.TripRequirement{}

	req = Merge(req, extract.Extract("我想去台東玩"))
	assert.False(t, IsComplete(&req, now))
	q, ok := NextQuestion(context.Background(), req.MissingFields(), req, nil)
	require.True(t, ok)
	assert.Equal(t, TemplateQuestion(domain.FieldDuration), q)

	req = Merge(req, extract.Extract("2天"))
	req = Merge(req, extract.Extract("一萬五，喜歡自然"))

	require.True(t, IsComplete(&req, now))
	assert.Equal(t, "台東", req.Location)
	assert.Equal(t, 2, req.DurationDays)
	assert.Equal(t, 15000, req.BudgetAmount)
	assert.Equal(t, []domain.Preference{domain.PrefNature}, req.Preferences)
	assert.Equal(t, 1, req.PeopleCount)
}
