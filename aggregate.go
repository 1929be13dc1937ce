package main

import (
	"math"
	"time"
)

// defaultWindowDays is the length of the weekly trend.
const defaultWindowDays = 7

// sameDay reports whether an entry date falls on the given calendar date.
func sameDay(a, b time.Time) bool {
	return dateOf(a).Equal(dateOf(b))
}

func (t *nutrientTotals) add(e logEntry) {
	t.Calories += e.Calories
	t.ProteinG += e.ProteinG
	t.CarbsG += e.CarbsG
	t.FatG += e.FatG
}

// entriesOn returns the entries dated date, preserving input order.
func entriesOn(entries []logEntry, date time.Time) []logEntry {
	var out []logEntry
	for _, e := range entries {
		if sameDay(e.Date.Time, date) {
			out = append(out, e)
		}
	}
	return out
}

// dailyTotals sums the nutrient fields of every entry on date. An empty
// selection yields all zeros.
func dailyTotals(entries []logEntry, date time.Time) nutrientTotals {
	var t nutrientTotals
	for _, e := range entries {
		if sameDay(e.Date.Time, date) {
			t.add(e)
		}
	}
	return t
}

// mealTotals is dailyTotals restricted to one meal.
func mealTotals(entries []logEntry, date time.Time, m meal) nutrientTotals {
	var t nutrientTotals
	for _, e := range entries {
		if e.Meal == m && sameDay(e.Date.Time, date) {
			t.add(e)
		}
	}
	return t
}

// mealBuckets groups the entries of date into the four meals in mealOrder.
// Entries keep their input order within a bucket; callers pass persisted
// entries in ascending id order followed by staged ones, so buckets list
// oldest first. Every bucket is present even when empty.
func mealBuckets(entries []logEntry, date time.Time) []mealBucket {
	buckets := make([]mealBucket, len(mealOrder))
	index := make(map[meal]int, len(mealOrder))
	for i, m := range mealOrder {
		buckets[i] = mealBucket{Meal: m, Entries: []logEntry{}}
		index[m] = i
	}
	for _, e := range entriesOn(entries, date) {
		i, ok := index[e.Meal]
		if !ok {
			continue
		}
		buckets[i].Entries = append(buckets[i].Entries, e)
		buckets[i].Totals.add(e)
	}
	return buckets
}

// weeklySeries returns one point per calendar date in the windowDays-long
// range ending at endDate, oldest first. Dates without entries are present
// with zero calories, so the series never has gaps. windowDays <= 0 means
// the default 7-day window.
func weeklySeries(entries []logEntry, endDate time.Time, windowDays int) []dayCalories {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	end := dateOf(endDate)
	start := end.AddDate(0, 0, -(windowDays - 1))

	// Index sums by date string for O(1) merge.
	byDate := make(map[string]float64)
	for _, e := range entries {
		d := dateOf(e.Date.Time)
		if d.Before(start) || d.After(end) {
			continue
		}
		byDate[d.Format("2006-01-02")] += e.Calories
	}

	// Build the full range, filling zeros for days with no data.
	series := make([]dayCalories, windowDays)
	for i := 0; i < windowDays; i++ {
		d := start.AddDate(0, 0, i)
		series[i] = dayCalories{
			Date:     DateOnly{d},
			Calories: byDate[d.Format("2006-01-02")],
		}
	}
	return series
}

// macroProgress compares consumed totals with targets for the dashboard.
// The calorie fraction is clamped to [0, 1].
func macroProgress(t nutrientTotals, tg targets) progressView {
	fraction := 0.0
	if tg.Calories > 0 {
		fraction = math.Min(1, math.Max(0, t.Calories/tg.Calories))
	}
	return progressView{
		CaloriesConsumed: t.Calories,
		CaloriesTarget:   tg.Calories,
		CaloriesFraction: fraction,
		Macros: []macroStat{
			{Name: "Protein", Consumed: t.ProteinG, Target: tg.ProteinG},
			{Name: "Carbs", Consumed: t.CarbsG, Target: tg.CarbsG},
			{Name: "Fat", Consumed: t.FatG, Target: tg.FatG},
		},
	}
}

// buildDailySummary assembles the daily view over entries (persisted ∪ staged).
func buildDailySummary(entries []logEntry, date time.Time, tg targets) dailySummary {
	totals := dailyTotals(entries, date)
	return dailySummary{
		Date:       DateOnly{dateOf(date)},
		EntryCount: len(entriesOn(entries, date)),
		Totals:     totals,
		Meals:      mealBuckets(entries, date),
		Progress:   macroProgress(totals, tg),
		Targets:    tg,
	}
}

// buildWeeklySummary assembles the weekly trend ending at end.
func buildWeeklySummary(entries []logEntry, end time.Time, days int, tg targets) weeklySummary {
	return weeklySummary{
		End:            DateOnly{dateOf(end)},
		Days:           weeklySeries(entries, end, days),
		TargetCalories: tg.Calories,
	}
}
