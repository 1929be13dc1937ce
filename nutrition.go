package main

import (
	"math"
	"time"
)

const (
	activitySedentary = "Sedentary (office job)"
	activityLight     = "Lightly Active (1-3 days/week exercise)"
	activityModerate  = "Moderately Active (3-5 days/week exercise)"
	activityVery      = "Very Active (6-7 days/week exercise)"
	activityExtra     = "Extra Active (hard labor, athlete)"
)

// activityLevels lists the activity tiers from least to most active.
var activityLevels = []string{
	activitySedentary,
	activityLight,
	activityModerate,
	activityVery,
	activityExtra,
}

// activityMultipliers maps activity level labels to their TDEE multiplier.
// This is the single source of truth for valid activity levels, also used for
// input validation when a profile is saved.
var activityMultipliers = map[string]float64{
	activitySedentary: 1.2,
	activityLight:     1.375,
	activityModerate:  1.55,
	activityVery:      1.725,
	activityExtra:     1.9,
}

const (
	// kcalPerKG is the energy equivalent of one kilogram of body mass.
	kcalPerKG = 7700.0
	// minTargetCalories is the hard floor for a daily calorie target.
	minTargetCalories = 1200.0
)

// computeBMR returns basal metabolic rate in kcal/day using the revised
// Harris-Benedict equation.
func computeBMR(weightKG, heightCM float64, age int, g gender) float64 {
	if g == genderMale {
		return 88.362 + 13.397*weightKG + 4.799*heightCM - 5.677*float64(age)
	}
	return 447.593 + 9.247*weightKG + 3.098*heightCM - 4.330*float64(age)
}

// computeTDEE scales BMR by the activity multiplier. Unknown levels are
// treated as sedentary.
func computeTDEE(bmr float64, activityLevel string) float64 {
	mult, found := activityMultipliers[activityLevel]
	if !found {
		mult = activityMultipliers[activitySedentary]
	}
	return bmr * mult
}

// computeTargets turns TDEE into a calorie target for the goal and splits it
// 30/40/30 into protein, carbs and fat grams.
func computeTargets(tdee float64, g goal, weeklyChangeKG float64) targets {
	dailyDelta := weeklyChangeKG * kcalPerKG / 7

	calories := tdee
	switch g {
	case goalWeightLoss:
		calories = tdee - dailyDelta
	case goalMuscleGain:
		calories = tdee + dailyDelta
	}
	calories = math.Max(minTargetCalories, calories)

	return targets{
		Calories: calories,
		ProteinG: calories * 0.30 / 4,
		CarbsG:   calories * 0.40 / 4,
		FatG:     calories * 0.30 / 9,
	}
}

// profileTargets runs the full calculator chain for a profile.
func profileTargets(p profile) (bmr, tdee float64, t targets) {
	bmr = computeBMR(p.WeightKG, p.HeightCM, p.Age, p.Gender)
	tdee = computeTDEE(bmr, p.ActivityLevel)
	return bmr, tdee, computeTargets(tdee, p.Goal, p.WeeklyChangeKG)
}

// newProfileResponse wraps a profile with its computed values.
func newProfileResponse(p profile, saved bool) profileResponse {
	bmr, tdee, t := profileTargets(p)
	return profileResponse{Profile: p, Saved: saved, BMR: bmr, TDEE: tdee, Targets: t}
}

// dateOf truncates t to its calendar date at midnight UTC. Uses the wall-clock
// date of t, not its UTC instant, so a late-evening local time stays on the same day.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// today returns the current local calendar date.
func today() time.Time {
	return dateOf(time.Now())
}

// parseDateOr parses a YYYY-MM-DD string, returning fallback when s is empty.
func parseDateOr(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
