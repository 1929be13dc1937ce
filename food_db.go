package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	errUnknownFood     = errors.New("unknown food")
	errUnknownMeal     = errors.New("meal must be one of: Breakfast, Lunch, Dinner, Snacks")
	errInvalidQuantity = errors.New("quantity must be greater than 0")
)

// defaultFoods is the built-in reference table.
var defaultFoods = []foodItem{
	{Name: "Roti (Chapati)", ServingSizeG: 40, Calories: 120, ProteinG: 3, CarbsG: 24, FatG: 1},
	{Name: "Phulka", ServingSizeG: 25, Calories: 70, ProteinG: 2, CarbsG: 15, FatG: 0.5},
	{Name: "Tandoori Roti", ServingSizeG: 50, Calories: 150, ProteinG: 4, CarbsG: 30, FatG: 2},
}

// foodTable is the immutable nutrition reference table, keyed by exact name.
type foodTable struct {
	items   map[string]foodItem
	options []foodOption // sorted by name
}

// newFoodTable builds the table once. Names must be non-empty and unique.
func newFoodTable(items []foodItem) (*foodTable, error) {
	t := &foodTable{items: make(map[string]foodItem, len(items))}
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, fmt.Errorf("food table: empty name")
		}
		if _, dup := t.items[name]; dup {
			return nil, fmt.Errorf("food table: duplicate name %q", name)
		}
		it.Name = name
		t.items[name] = it
		t.options = append(t.options, foodOption{Label: foodLabel(it), Key: name, Item: it})
	}
	sort.Slice(t.options, func(i, j int) bool { return t.options[i].Key < t.options[j].Key })
	return t, nil
}

// loadFoodTable reads the table from a YAML file, or returns the built-in
// table when path is empty. The file is a list of foodItem mappings.
func loadFoodTable(path string) (*foodTable, error) {
	if path == "" {
		return newFoodTable(defaultFoods)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read food table: %w", err)
	}
	var items []foodItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse food table %s: %w", path, err)
	}
	return newFoodTable(items)
}

// foodLabel renders the display label, e.g. "Roti (Chapati) (40g)".
func foodLabel(it foodItem) string {
	return it.Name + " (" + strconv.FormatFloat(it.ServingSizeG, 'f', -1, 64) + "g)"
}

func (t *foodTable) get(name string) (foodItem, bool) {
	it, ok := t.items[name]
	return it, ok
}

// listAll returns every item with its label and key, sorted by name.
func (t *foodTable) listAll() []foodOption {
	out := make([]foodOption, len(t.options))
	copy(out, t.options)
	return out
}

// newEntry builds a log entry for quantity servings of the named food. The
// nutrient values are snapshotted from the table now and never recomputed.
func (t *foodTable) newEntry(name string, date time.Time, m meal, quantity float64) (logEntry, error) {
	it, ok := t.get(name)
	if !ok {
		return logEntry{}, fmt.Errorf("%w: %q", errUnknownFood, name)
	}
	if !m.valid() {
		return logEntry{}, errUnknownMeal
	}
	if quantity <= 0 {
		return logEntry{}, errInvalidQuantity
	}
	return logEntry{
		Date:     DateOnly{dateOf(date)},
		Meal:     m,
		Food:     it.Name,
		Quantity: quantity,
		Calories: it.Calories * quantity,
		ProteinG: it.ProteinG * quantity,
		CarbsG:   it.CarbsG * quantity,
		FatG:     it.FatG * quantity,
	}, nil
}
