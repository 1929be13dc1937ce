package main

import "fmt"

// stagingList holds entries the user has added but not yet saved. It is owned
// by whoever builds it (one per request here) and reaches the store only
// through an explicit commit.
type stagingList struct {
	entries []logEntry
}

// stage resolves a client-side pending entry against the food table and
// appends it. Missing dates default to today.
func (s *stagingList) stage(foods *foodTable, req stagedEntryRequest) error {
	date, err := parseDateOr(req.Date, today())
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", req.Date)
	}
	e, err := foods.newEntry(req.Food, date, req.Meal, req.Quantity)
	if err != nil {
		return err
	}
	s.entries = append(s.entries, e)
	return nil
}

// stageAll stages every request, stopping at the first invalid one.
func (s *stagingList) stageAll(foods *foodTable, reqs []stagedEntryRequest) error {
	for i, r := range reqs {
		if err := s.stage(foods, r); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

func (s *stagingList) len() int { return len(s.entries) }

// pending returns a copy of the staged entries.
func (s *stagingList) pending() []logEntry {
	out := make([]logEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// withPersisted returns persisted followed by the staged entries, the input
// the aggregator expects.
func (s *stagingList) withPersisted(persisted []logEntry) []logEntry {
	out := make([]logEntry, 0, len(persisted)+len(s.entries))
	out = append(out, persisted...)
	return append(out, s.entries...)
}

func (s *stagingList) clear() { s.entries = nil }
