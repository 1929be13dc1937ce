package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func mustDefaultFoods(t *testing.T) *foodTable {
	t.Helper()
	foods, err := newFoodTable(defaultFoods)
	if err != nil {
		t.Fatalf("newFoodTable: %v", err)
	}
	return foods
}

func TestFoodTable_ListAllSortedWithLabels(t *testing.T) {
	opts := mustDefaultFoods(t).listAll()

	want := []struct{ label, key string }{
		{"Phulka (25g)", "Phulka"},
		{"Roti (Chapati) (40g)", "Roti (Chapati)"},
		{"Tandoori Roti (50g)", "Tandoori Roti"},
	}
	if len(opts) != len(want) {
		t.Fatalf("got %d options, want %d", len(opts), len(want))
	}
	for i, w := range want {
		if opts[i].Label != w.label || opts[i].Key != w.key {
			t.Errorf("option %d = (%q, %q), want (%q, %q)", i, opts[i].Label, opts[i].Key, w.label, w.key)
		}
	}
}

// TestFoodTable_ListAllReturnsCopy verifies callers cannot reorder the table.
func TestFoodTable_ListAllReturnsCopy(t *testing.T) {
	foods := mustDefaultFoods(t)
	opts := foods.listAll()
	opts[0], opts[2] = opts[2], opts[0]
	if foods.listAll()[0].Key != "Phulka" {
		t.Error("mutating listAll result changed the table")
	}
}

func TestFoodTable_Get(t *testing.T) {
	foods := mustDefaultFoods(t)

	it, ok := foods.get("Roti (Chapati)")
	if !ok || it.Calories != 120 || it.ServingSizeG != 40 {
		t.Errorf("get(Roti (Chapati)) = %+v, %v", it, ok)
	}
	// Lookup is by exact key, never by label.
	for _, name := range []string{"Roti (Chapati) (40g)", "roti (chapati)", "Naan", ""} {
		if _, ok := foods.get(name); ok {
			t.Errorf("get(%q) found an item, want miss", name)
		}
	}
}

func TestNewFoodTable_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		items []foodItem
	}{
		{"empty name", []foodItem{{Name: "  ", Calories: 10}}},
		{"duplicate", []foodItem{{Name: "Phulka"}, {Name: "Phulka "}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := newFoodTable(tc.items); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

/* ─── newEntry ───────────────────────────────────────────────────────── */

func TestNewEntry_ScalesByQuantity(t *testing.T) {
	foods := mustDefaultFoods(t)
	e, err := foods.newEntry("Roti (Chapati)", day(2026, 10, 19), mealLunch, 2)
	if err != nil {
		t.Fatalf("newEntry: %v", err)
	}
	if e.Calories != 240 || e.ProteinG != 6 || e.CarbsG != 48 || e.FatG != 2 {
		t.Errorf("entry = %+v, want 240/6/48/2", e)
	}
	if e.Food != "Roti (Chapati)" || e.Meal != mealLunch || e.Quantity != 2 {
		t.Errorf("entry identity = %+v", e)
	}
	if e.Date.Format("2006-01-02") != "2026-10-19" {
		t.Errorf("date = %s", e.Date.Format("2006-01-02"))
	}
}

func TestNewEntry_FractionalQuantity(t *testing.T) {
	foods := mustDefaultFoods(t)
	e, err := foods.newEntry("Phulka", day(2026, 10, 19), mealSnacks, 0.5)
	if err != nil {
		t.Fatalf("newEntry: %v", err)
	}
	if e.Calories != 35 || e.FatG != 0.25 {
		t.Errorf("entry = %+v, want 35 kcal / 0.25 g fat", e)
	}
}

func TestNewEntry_Errors(t *testing.T) {
	foods := mustDefaultFoods(t)
	cases := []struct {
		name     string
		food     string
		meal     meal
		quantity float64
		want     error
	}{
		{"unknown food", "Naan", mealLunch, 1, errUnknownFood},
		{"label instead of key", "Phulka (25g)", mealLunch, 1, errUnknownFood},
		{"bad meal", "Phulka", meal("Brunch"), 1, errUnknownMeal},
		{"zero quantity", "Phulka", mealLunch, 0, errInvalidQuantity},
		{"negative quantity", "Phulka", mealLunch, -1, errInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := foods.newEntry(tc.food, day(2026, 10, 19), tc.meal, tc.quantity)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

/* ─── loadFoodTable ──────────────────────────────────────────────────── */

func TestLoadFoodTable_DefaultWhenNoPath(t *testing.T) {
	foods, err := loadFoodTable("")
	if err != nil {
		t.Fatalf("loadFoodTable: %v", err)
	}
	if len(foods.listAll()) != len(defaultFoods) {
		t.Errorf("got %d foods, want %d", len(foods.listAll()), len(defaultFoods))
	}
}

func TestLoadFoodTable_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foods.yaml")
	data := `
- name: Paratha
  serving_size_g: 80
  calories: 260
  protein_g: 5
  carbs_g: 36
  fat_g: 10
- name: Phulka
  serving_size_g: 25
  calories: 70
  protein_g: 2
  carbs_g: 15
  fat_g: 0.5
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	foods, err := loadFoodTable(path)
	if err != nil {
		t.Fatalf("loadFoodTable: %v", err)
	}
	opts := foods.listAll()
	if len(opts) != 2 || opts[0].Key != "Paratha" || opts[0].Label != "Paratha (80g)" {
		t.Errorf("options = %+v", opts)
	}
	if it, _ := foods.get("Paratha"); it.FatG != 10 {
		t.Errorf("Paratha fat = %v, want 10", it.FatG)
	}
}

func TestLoadFoodTable_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := loadFoodTable(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file: expected error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("name: [unterminated"), 0644)
	if _, err := loadFoodTable(bad); err == nil {
		t.Error("malformed yaml: expected error")
	}

	dup := filepath.Join(dir, "dup.yaml")
	os.WriteFile(dup, []byte("- name: Phulka\n- name: Phulka\n"), 0644)
	if _, err := loadFoodTable(dup); err == nil {
		t.Error("duplicate names: expected error")
	}
}
