package main

import (
	"testing"
	"time"
)

// day returns midnight UTC on the given date.
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// entry builds a log entry with the given id, date, meal and calories; the
// macros are derived from calories so totals stay easy to check.
func entry(id int, date time.Time, m meal, calories float64) logEntry {
	return logEntry{
		ID:       id,
		Date:     DateOnly{date},
		Meal:     m,
		Food:     "Roti (Chapati)",
		Quantity: 1,
		Calories: calories,
		ProteinG: calories / 40,
		CarbsG:   calories / 5,
		FatG:     calories / 120,
	}
}

/* ─── dailyTotals / mealTotals ───────────────────────────────────────── */

func TestDailyTotals_Empty(t *testing.T) {
	got := dailyTotals(nil, day(2026, 10, 19))
	if got != (nutrientTotals{}) {
		t.Errorf("dailyTotals(nil) = %+v, want all zeros", got)
	}
}

func TestDailyTotals_FiltersByDate(t *testing.T) {
	d := day(2026, 10, 19)
	entries := []logEntry{
		entry(1, d, mealBreakfast, 120),
		entry(2, d, mealDinner, 240),
		entry(3, d.AddDate(0, 0, -1), mealLunch, 1000),
	}
	got := dailyTotals(entries, d)
	if got.Calories != 360 {
		t.Errorf("calories = %v, want 360", got.Calories)
	}
	if got.ProteinG != 9 || got.CarbsG != 72 || got.FatG != 3 {
		t.Errorf("macros = %+v, want protein 9 carbs 72 fat 3", got)
	}
}

// TestDailyTotals_OrderInvariant verifies reversing or rotating the input
// does not change the sums.
func TestDailyTotals_OrderInvariant(t *testing.T) {
	d := day(2026, 10, 19)
	entries := []logEntry{
		entry(1, d, mealBreakfast, 120),
		entry(2, d, mealLunch, 70),
		entry(3, d, mealSnacks, 150),
		entry(4, d, mealDinner, 240),
	}
	want := dailyTotals(entries, d)

	reversed := make([]logEntry, len(entries))
	for i, e := range entries {
		reversed[len(entries)-1-i] = e
	}
	rotated := append(append([]logEntry{}, entries[2:]...), entries[:2]...)

	for name, in := range map[string][]logEntry{"reversed": reversed, "rotated": rotated} {
		if got := dailyTotals(in, d); got != want {
			t.Errorf("%s: %+v, want %+v", name, got, want)
		}
	}
}

// TestDailyTotals_IgnoresTimeOfDay verifies an entry dated late in the day
// still counts for that calendar date.
func TestDailyTotals_IgnoresTimeOfDay(t *testing.T) {
	d := day(2026, 10, 19)
	late := logEntry{Date: DateOnly{d.Add(23 * time.Hour)}, Meal: mealDinner, Calories: 500}
	if got := dailyTotals([]logEntry{late}, d); got.Calories != 500 {
		t.Errorf("calories = %v, want 500", got.Calories)
	}
}

func TestMealTotals(t *testing.T) {
	d := day(2026, 10, 19)
	entries := []logEntry{
		entry(1, d, mealBreakfast, 120),
		entry(2, d, mealBreakfast, 70),
		entry(3, d, mealLunch, 150),
		entry(4, d.AddDate(0, 0, 1), mealBreakfast, 999),
	}
	if got := mealTotals(entries, d, mealBreakfast); got.Calories != 190 {
		t.Errorf("breakfast = %v, want 190", got.Calories)
	}
	if got := mealTotals(entries, d, mealDinner); got != (nutrientTotals{}) {
		t.Errorf("dinner = %+v, want zeros", got)
	}
}

/* ─── mealBuckets ────────────────────────────────────────────────────── */

// TestMealBuckets_FixedOrder verifies the four buckets always come back in
// Breakfast, Lunch, Dinner, Snacks order, whatever order entries arrive in,
// and that entries keep their input order inside a bucket.
func TestMealBuckets_FixedOrder(t *testing.T) {
	d := day(2026, 10, 19)
	entries := []logEntry{
		entry(1, d, mealSnacks, 70),
		entry(2, d, mealDinner, 120),
		entry(3, d, mealBreakfast, 150),
		entry(4, d, mealSnacks, 40),
	}
	buckets := mealBuckets(entries, d)

	if len(buckets) != 4 {
		t.Fatalf("got %d buckets, want 4", len(buckets))
	}
	for i, m := range mealOrder {
		if buckets[i].Meal != m {
			t.Errorf("bucket %d = %s, want %s", i, buckets[i].Meal, m)
		}
	}
	if len(buckets[1].Entries) != 0 || buckets[1].Entries == nil {
		t.Errorf("lunch bucket should be an empty, non-nil slice")
	}
	snacks := buckets[3]
	if len(snacks.Entries) != 2 || snacks.Entries[0].ID != 1 || snacks.Entries[1].ID != 4 {
		t.Errorf("snack entries = %+v, want ids [1 4]", snacks.Entries)
	}
	if snacks.Totals.Calories != 110 {
		t.Errorf("snack calories = %v, want 110", snacks.Totals.Calories)
	}
}

/* ─── weeklySeries ───────────────────────────────────────────────────── */

// assertDense checks n points, consecutive ascending dates ending at end.
func assertDense(t *testing.T, series []dayCalories, end time.Time, n int) {
	t.Helper()
	if len(series) != n {
		t.Fatalf("got %d points, want %d", len(series), n)
	}
	for i, p := range series {
		want := end.AddDate(0, 0, i-(n-1))
		if !p.Date.Time.Equal(want) {
			t.Errorf("point %d date = %s, want %s", i, p.Date.Format("2006-01-02"), want.Format("2006-01-02"))
		}
	}
}

func TestWeeklySeries_Empty(t *testing.T) {
	end := day(2026, 10, 19)
	series := weeklySeries(nil, end, 7)
	assertDense(t, series, end, 7)
	for _, p := range series {
		if p.Calories != 0 {
			t.Errorf("%s = %v, want 0", p.Date.Format("2006-01-02"), p.Calories)
		}
	}
}

// TestWeeklySeries_SingleDay verifies one active day yields six zeros and
// one non-zero point at the right position.
func TestWeeklySeries_SingleDay(t *testing.T) {
	end := day(2026, 10, 19)
	active := end.AddDate(0, 0, -2)
	entries := []logEntry{
		entry(1, active, mealLunch, 240),
		entry(2, active, mealDinner, 150),
	}
	series := weeklySeries(entries, end, 7)
	assertDense(t, series, end, 7)

	nonZero := 0
	for i, p := range series {
		if p.Calories != 0 {
			nonZero++
			if i != 4 || p.Calories != 390 {
				t.Errorf("point %d = %v, want index 4 with 390", i, p.Calories)
			}
		}
	}
	if nonZero != 1 {
		t.Errorf("got %d non-zero points, want 1", nonZero)
	}
}

// TestWeeklySeries_ExcludesOutsideWindow verifies entries before the window
// start or after the end date are ignored.
func TestWeeklySeries_ExcludesOutsideWindow(t *testing.T) {
	end := day(2026, 10, 19)
	entries := []logEntry{
		entry(1, end.AddDate(0, 0, -7), mealLunch, 500), // one day before the window
		entry(2, end.AddDate(0, 0, -6), mealLunch, 100), // first day of the window
		entry(3, end, mealLunch, 200),
		entry(4, end.AddDate(0, 0, 1), mealLunch, 900),
	}
	series := weeklySeries(entries, end, 7)
	assertDense(t, series, end, 7)
	if series[0].Calories != 100 || series[6].Calories != 200 {
		t.Errorf("first/last = %v/%v, want 100/200", series[0].Calories, series[6].Calories)
	}
	var sum float64
	for _, p := range series {
		sum += p.Calories
	}
	if sum != 300 {
		t.Errorf("window sum = %v, want 300", sum)
	}
}

func TestWeeklySeries_CrossesMonthAndYear(t *testing.T) {
	end := day(2027, 1, 3)
	series := weeklySeries([]logEntry{entry(1, day(2026, 12, 31), mealBreakfast, 120)}, end, 7)
	assertDense(t, series, end, 7)
	if series[0].Date.Format("2006-01-02") != "2026-12-28" {
		t.Errorf("window start = %s, want 2026-12-28", series[0].Date.Format("2006-01-02"))
	}
	if series[3].Calories != 120 {
		t.Errorf("2026-12-31 = %v, want 120", series[3].Calories)
	}
}

func TestWeeklySeries_WindowSizes(t *testing.T) {
	end := day(2026, 10, 19)
	cases := []struct {
		days, want int
	}{
		{0, 7}, {-3, 7}, {1, 1}, {14, 14}, {30, 30},
	}
	for _, tc := range cases {
		series := weeklySeries(nil, end, tc.days)
		assertDense(t, series, end, tc.want)
	}
}

/* ─── macroProgress ──────────────────────────────────────────────────── */

func TestMacroProgress(t *testing.T) {
	tg := computeTargets(2000, goalMaintain, 0)

	p := macroProgress(nutrientTotals{Calories: 500, ProteinG: 20, CarbsG: 60, FatG: 10}, tg)
	if p.CaloriesFraction != 0.25 {
		t.Errorf("fraction = %v, want 0.25", p.CaloriesFraction)
	}
	if len(p.Macros) != 3 || p.Macros[0].Name != "Protein" || p.Macros[0].Target != tg.ProteinG {
		t.Errorf("macros = %+v", p.Macros)
	}

	over := macroProgress(nutrientTotals{Calories: 5000}, tg)
	if over.CaloriesFraction != 1 {
		t.Errorf("over-budget fraction = %v, want clamped to 1", over.CaloriesFraction)
	}
}

func TestBuildDailySummary_EntryCount(t *testing.T) {
	d := day(2026, 10, 19)
	tg := computeTargets(2000, goalMaintain, 0)

	empty := buildDailySummary(nil, d, tg)
	if empty.EntryCount != 0 || empty.Totals != (nutrientTotals{}) {
		t.Errorf("empty summary = %+v", empty)
	}

	s := buildDailySummary([]logEntry{entry(1, d, mealLunch, 0)}, d, tg)
	if s.EntryCount != 1 {
		t.Errorf("entry count = %d, want 1 (zero-calorie entry still counts)", s.EntryCount)
	}
}
