package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = dateOf(v.Time)
	return nil
}

/* ─── Enums ──────────────────────────────────────────────────────────── */

type gender string

const (
	genderMale   gender = "Male"
	genderFemale gender = "Female"
)

type goal string

const (
	goalMaintain   goal = "Maintain"
	goalWeightLoss goal = "Weight Loss"
	goalMuscleGain goal = "Muscle Gain"
)

var validGoals = map[goal]bool{
	goalMaintain:   true,
	goalWeightLoss: true,
	goalMuscleGain: true,
}

type meal string

const (
	mealBreakfast meal = "Breakfast"
	mealLunch     meal = "Lunch"
	mealDinner    meal = "Dinner"
	mealSnacks    meal = "Snacks"
)

// mealOrder is the fixed display order of the "today" buckets.
var mealOrder = []meal{mealBreakfast, mealLunch, mealDinner, mealSnacks}

func (m meal) valid() bool {
	for _, o := range mealOrder {
		if m == o {
			return true
		}
	}
	return false
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// foodItem is one row of the nutrition reference table. Values are per serving.
type foodItem struct {
	Name         string  `json:"name"           yaml:"name"`
	ServingSizeG float64 `json:"serving_size_g" yaml:"serving_size_g"`
	Calories     float64 `json:"calories"       yaml:"calories"`
	ProteinG     float64 `json:"protein_g"      yaml:"protein_g"`
	CarbsG       float64 `json:"carbs_g"        yaml:"carbs_g"`
	FatG         float64 `json:"fat_g"          yaml:"fat_g"`
}

// foodOption pairs a display label with the key it stands for, so callers
// never have to recover the key from the label.
type foodOption struct {
	Label string   `json:"label"`
	Key   string   `json:"key"`
	Item  foodItem `json:"item"`
}

// profile maps to nutrition_profiles. One row per user, replaced wholesale on save.
type profile struct {
	WeightKG       float64 `json:"weight_kg"        db:"weight_kg"        binding:"gte=40,lte=200"`
	HeightCM       float64 `json:"height_cm"        db:"height_cm"        binding:"gte=120,lte=220"`
	Age            int     `json:"age"              db:"age"              binding:"gte=10,lte=100"`
	Gender         gender  `json:"gender"           db:"gender"           binding:"oneof=Male Female"`
	ActivityLevel  string  `json:"activity_level"   db:"activity_level"   binding:"required"`
	Goal           goal    `json:"goal"             db:"goal"             binding:"required"`
	WeeklyChangeKG float64 `json:"weekly_change_kg" db:"weekly_change_kg" binding:"gte=0,lte=1.5"`
}

// defaultProfile is what a user sees before their first save.
func defaultProfile() profile {
	return profile{
		WeightKG:       70,
		HeightCM:       170,
		Age:            25,
		Gender:         genderMale,
		ActivityLevel:  activitySedentary,
		Goal:           goalWeightLoss,
		WeeklyChangeKG: 0.5,
	}
}

// targets are the daily energy and macro goals derived from a profile.
type targets struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// logEntry maps to nutrition_log. Nutrient fields are a snapshot taken when
// the entry was created and are never recomputed from the food table.
type logEntry struct {
	ID        int        `json:"id"         db:"id"`
	Date      DateOnly   `json:"date"       db:"date"`
	Meal      meal       `json:"meal"       db:"meal"`
	Food      string     `json:"food"       db:"food"`
	Quantity  float64    `json:"quantity"   db:"quantity"`
	Calories  float64    `json:"calories"   db:"calories"`
	ProteinG  float64    `json:"protein_g"  db:"protein"`
	CarbsG    float64    `json:"carbs_g"    db:"carbs"`
	FatG      float64    `json:"fat_g"      db:"fat"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// nutrientTotals is the sum of the four nutrient fields over a set of entries.
type nutrientTotals struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// mealBucket is one of the four groups of the daily view.
type mealBucket struct {
	Meal    meal           `json:"meal"`
	Totals  nutrientTotals `json:"totals"`
	Entries []logEntry     `json:"entries"`
}

// dayCalories is one point of the weekly trend.
type dayCalories struct {
	Date     DateOnly `json:"date"`
	Calories float64  `json:"calories"`
}

// macroStat is a consumed/target pair for one macro.
type macroStat struct {
	Name     string  `json:"name"`
	Consumed float64 `json:"consumed"`
	Target   float64 `json:"target"`
}

// progressView backs the daily progress dashboard.
type progressView struct {
	CaloriesConsumed float64     `json:"calories_consumed"`
	CaloriesTarget   float64     `json:"calories_target"`
	CaloriesFraction float64     `json:"calories_fraction"`
	Macros           []macroStat `json:"macros"`
}

/* ─── Request / Response types ───────────────────────────────────────── */

// profileResponse is a profile together with the values computed from it.
type profileResponse struct {
	Profile profile `json:"profile"`
	Saved   bool    `json:"saved"`
	BMR     float64 `json:"bmr"`
	TDEE    float64 `json:"tdee"`
	Targets targets `json:"targets"`
}

// stagedEntryRequest is an entry the client has not committed yet. The server
// always derives nutrient values from the food table, never from the client.
type stagedEntryRequest struct {
	Date     string  `json:"date"`
	Meal     meal    `json:"meal"     binding:"required"`
	Food     string  `json:"food"     binding:"required"`
	Quantity float64 `json:"quantity" binding:"gt=0,lte=20"`
}

// appendEntriesRequest is the request body for POST /api/log/entries.
type appendEntriesRequest struct {
	Entries []stagedEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// previewRequest is the request body for POST /api/log/preview.
type previewRequest struct {
	Date   string               `json:"date"`
	Days   int                  `json:"days"`
	Staged []stagedEntryRequest `json:"staged" binding:"omitempty,dive"`
}

// saveAllRequest is the request body for POST /api/save.
type saveAllRequest struct {
	Profile *profile             `json:"profile"`
	Staged  []stagedEntryRequest `json:"staged" binding:"omitempty,dive"`
}

// dailySummary is the response shape for GET /api/log/daily.
type dailySummary struct {
	Date       DateOnly       `json:"date"`
	EntryCount int            `json:"entry_count"`
	Totals     nutrientTotals `json:"totals"`
	Meals      []mealBucket   `json:"meals"`
	Progress   progressView   `json:"progress"`
	Targets    targets        `json:"targets"`
}

// weeklySummary is the response shape for GET /api/log/weekly.
type weeklySummary struct {
	End            DateOnly      `json:"end"`
	Days           []dayCalories `json:"days"`
	TargetCalories float64       `json:"target_calories"`
}
