package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite" // Pure Go sqlite driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql
var sqliteMigrationsFS embed.FS

// Compile-time interface check.
var _ nutritionStore = (*sqliteStore)(nil)

// sqliteStore is the single-file store used for local runs and tests.
type sqliteStore struct {
	db *sql.DB
}

// newSQLiteStore opens (creating if needed) the database at path and applies
// the embedded migrations.
func newSQLiteStore(path string) (*sqliteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	if err := runSQLiteMigrations(path); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; sqlite serializes anyway.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

// runSQLiteMigrations applies database migrations using golang-migrate.
func runSQLiteMigrations(path string) error {
	d, err := iofs.New(sqliteMigrationsFS, "migrations/sqlite")
	if err != nil {
		return fmt.Errorf("failed to create iofs driver: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", d, "sqlite://"+path)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Printf("[sqlite] migrations applied to %s", path)
	return nil
}

func (s *sqliteStore) Close() { s.db.Close() }

func (s *sqliteStore) LoadProfile(ctx context.Context, userID int) (profile, bool, error) {
	var p profile
	var g, gl string
	err := s.db.QueryRowContext(ctx,
		`SELECT weight_kg, height_cm, age, gender, activity_level, goal, weekly_change_kg
		 FROM nutrition_profiles WHERE user_id = ?`, userID).
		Scan(&p.WeightKG, &p.HeightCM, &p.Age, &g, &p.ActivityLevel, &gl, &p.WeeklyChangeKG)
	if errors.Is(err, sql.ErrNoRows) {
		return profile{}, false, nil
	}
	if err != nil {
		return profile{}, false, fmt.Errorf("load profile: %w", err)
	}
	p.Gender, p.Goal = gender(g), goal(gl)
	return p, true, nil
}

func (s *sqliteStore) SaveProfile(ctx context.Context, userID int, p profile, t targets) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO nutrition_profiles (user_id, weight_kg, height_cm, age, gender,
			activity_level, goal, weekly_change_kg,
			target_calories, target_protein_g, target_carbs_g, target_fat_g, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id) DO UPDATE SET
			weight_kg = excluded.weight_kg,
			height_cm = excluded.height_cm,
			age = excluded.age,
			gender = excluded.gender,
			activity_level = excluded.activity_level,
			goal = excluded.goal,
			weekly_change_kg = excluded.weekly_change_kg,
			target_calories = excluded.target_calories,
			target_protein_g = excluded.target_protein_g,
			target_carbs_g = excluded.target_carbs_g,
			target_fat_g = excluded.target_fat_g,
			updated_at = CURRENT_TIMESTAMP`,
		userID, p.WeightKG, p.HeightCM, p.Age, string(p.Gender),
		p.ActivityLevel, string(p.Goal), p.WeeklyChangeKG,
		t.Calories, t.ProteinG, t.CarbsG, t.FatG)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// scanLogEntry maps one nutrition_log row, in sqliteLogEntryColumns order, onto logEntry.
func scanLogEntry(row interface{ Scan(...any) error }) (logEntry, error) {
	var e logEntry
	var date, m, created string
	if err := row.Scan(&e.ID, &date, &m, &e.Food, &e.Quantity,
		&e.Calories, &e.ProteinG, &e.CarbsG, &e.FatG, &created); err != nil {
		return logEntry{}, err
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return logEntry{}, fmt.Errorf("entry %d: bad date %q: %w", e.ID, date, err)
	}
	e.Date = DateOnly{d}
	e.Meal = meal(m)
	e.CreatedAt = parseSQLiteTime(created)
	return e, nil
}

// parseSQLiteTime reads a CURRENT_TIMESTAMP value. The driver may hand it
// back as RFC 3339 or in sqlite's own layout depending on the column's
// declared type, so both are accepted; anything else yields nil.
func parseSQLiteTime(s string) *time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

const sqliteLogEntryColumns = `id, date, meal, food, quantity, calories, protein, carbs, fat, created_at`

func (s *sqliteStore) LoadEntries(ctx context.Context, userID int) ([]logEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteLogEntryColumns+` FROM nutrition_log
		 WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()

	entries := []logEntry{}
	for rows.Next() {
		e, err := scanLogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	return entries, nil
}

func (s *sqliteStore) AppendEntries(ctx context.Context, userID int, entries []logEntry) ([]logEntry, error) {
	if len(entries) == 0 {
		return []logEntry{}, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	saved := make([]logEntry, 0, len(entries))
	for _, e := range entries {
		row := tx.QueryRowContext(ctx,
			`INSERT INTO nutrition_log (user_id, date, meal, food, quantity, calories, protein, carbs, fat)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 RETURNING `+sqliteLogEntryColumns,
			userID, e.Date.Format("2006-01-02"), string(e.Meal), e.Food, e.Quantity,
			e.Calories, e.ProteinG, e.CarbsG, e.FatG)
		out, err := scanLogEntry(row)
		if err != nil {
			return nil, fmt.Errorf("append entry: %w", err)
		}
		saved = append(saved, out)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}
	return saved, nil
}

func (s *sqliteStore) DeleteEntry(ctx context.Context, userID, id int) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM nutrition_log WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n == 0 {
		return errNotFound
	}
	return nil
}

func (s *sqliteStore) UserByUsername(ctx context.Context, username string) (user, error) {
	var u user
	var created string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, email, auth_token, password, created_at FROM users WHERE username = ?",
		username).Scan(&u.ID, &u.Username, &u.Email, &u.AuthToken, &u.Password, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return user{}, errNotFound
	}
	if err != nil {
		return user{}, fmt.Errorf("load user: %w", err)
	}
	u.CreatedAt = parseSQLiteTime(created)
	return u, nil
}

func (s *sqliteStore) UserIDByToken(ctx context.Context, token string) (int, error) {
	var userID int
	err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE auth_token = ?", token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errNotFound
	}
	return userID, err
}

func (s *sqliteStore) CreateUser(ctx context.Context, u user) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password, auth_token) VALUES (?, ?, ?, ?)`,
		u.Username, u.Email, u.Password, u.AuthToken)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return int(id), nil
}
