package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/trek/internal/domain"
)

const oneDayLibrary = `{
  "墾丁": {
    "1天": {
      "trip_name": "墾丁一日",
      "location": "墾丁",
      "duration": 1,
      "total_budget": "3,000",
      "daily_itinerary": [
        {"day": 7, "theme": "海邊", "activities": [
          {"time": "14:00", "name": "白沙灣", "cost": 0},
          {"time": "09:00", "name": "鵝鑾鼻燈塔", "cost": "60"}
        ]}
      ]
    }
  }
}`

// TestBuiltin_LoadsAndValidates guards the embedded library; a malformed
// entry would otherwise only surface when every generated plan fails.
func TestBuiltin_LoadsAndValidates(t *testing.T) {
	lib := Builtin()
	require.NotNil(t, lib)
	assert.Equal(t, []string{"台北", "台南", "台東", "花蓮"}, lib.Locations())
	assert.Equal(t, 5, lib.Len())

	for _, loc := range lib.Locations() {
		for _, days := range lib.DayCounts(loc) {
			plan, ok := lib.Lookup(loc, days)
			require.True(t, ok, "%s/%d", loc, days)
			assert.Equal(t, loc, plan.Location)
			assert.Len(t, plan.Days, days)
			for i, d := range plan.Days {
				assert.Equal(t, i+1, d.DayIndex)
				assert.NotEmpty(t, d.Activities, "%s day %d", loc, i+1)
			}
		}
	}
}

func TestParse_NormalizesPlans(t *testing.T) {
	lib, err := Parse([]byte(oneDayLibrary))
	require.NoError(t, err)

	plan, ok := lib.Lookup("墾丁", 1)
	require.True(t, ok)
	assert.Equal(t, domain.FlexInt(3000), plan.TotalBudget)
	assert.Equal(t, 1, plan.Days[0].DayIndex)
	assert.Equal(t, "鵝鑾鼻燈塔", plan.Days[0].Activities[0].Name)
	assert.Equal(t, domain.FlexInt(60), plan.Days[0].Activities[0].Cost)
}

func TestParse_Corrupt(t *testing.T) {
	cases := map[string]string{
		"not json":       `{"台北": `,
		"wrong shape":    `["台北"]`,
		"bad day label":  `{"台北": {"three": {"trip_name": "x", "location": "台北", "duration": 1, "daily_itinerary": [{"day": 1}]}}}`,
		"missing name":   `{"台北": {"1天": {"location": "台北", "duration": 1, "daily_itinerary": [{"day": 1}]}}}`,
		"no days":        `{"台北": {"1天": {"trip_name": "x", "location": "台北", "duration": 1, "daily_itinerary": []}}}`,
		"day count skew": `{"台北": {"2天": {"trip_name": "x", "location": "台北", "duration": 2, "daily_itinerary": [{"day": 1}]}}}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.ErrorIs(t, err, ErrCorruptLibrary)
		})
	}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	lib, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Zero(t, lib.Len())
	_, ok := lib.ForLocation("台北")
	assert.False(t, ok)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte(oneDayLibrary), 0o644))

	lib, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"墾丁"}, lib.Locations())
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrCorruptLibrary)
	assert.Contains(t, err.Error(), path)
}

func TestLookup_ReturnsIndependentCopies(t *testing.T) {
	lib := Builtin()
	a, ok := lib.Lookup("台南", 2)
	require.True(t, ok)
	a.Days[0].Activities[0].Name = "changed"
	a.PackingList[0] = "changed"

	b, _ := lib.Lookup("台南", 2)
	assert.Equal(t, "赤崁樓", b.Days[0].Activities[0].Name)
	assert.NotEqual(t, "changed", b.PackingList[0])
}

func TestLookup_Misses(t *testing.T) {
	lib := Builtin()
	_, ok := lib.Lookup("台南", 5)
	assert.False(t, ok)
	_, ok = lib.Lookup("金門", 2)
	assert.False(t, ok)

	var nilLib *Library
	_, ok = nilLib.Lookup("台南", 2)
	assert.False(t, ok)
	assert.Zero(t, nilLib.Len())
}

func TestForLocation_PicksShortestPlan(t *testing.T) {
	plan, ok := Builtin().ForLocation("台北")
	require.True(t, ok)
	assert.Len(t, plan.Days, 2)
	assert.Equal(t, []int{2, 3}, Builtin().DayCounts("台北"))
}

func TestDayLabel(t *testing.T) {
	assert.Equal(t, "3天", DayLabel(3))
	n, ok := ParseDayLabel("12天")
	assert.True(t, ok)
	assert.Equal(t, 12, n)
	for _, bad := range []string{"3", "天", "0天", "-1天", "三天"} {
		_, ok := ParseDayLabel(bad)
		assert.False(t, ok, bad)
	}
}
