package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time interface check.
var _ nutritionStore = (*pgStore)(nil)

// pgStore is the PostgreSQL-backed store.
type pgStore struct {
	db *pgxpool.Pool
}

// logEntryColumns is the canonical select list for nutrition_log. Every read
// goes through it so RowToStructByName always sees the same names.
const logEntryColumns = `id, date, meal::text AS meal, food, quantity,
	calories, protein, carbs, fat, created_at`

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// newPgStore creates a connection pool. We use a pool (not a single conn) because
// managed Postgres providers close idle connections after a few minutes.
func newPgStore(ctx context.Context, dbURL string) (*pgStore, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from server-side prepared statement caches after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &pgStore{db: pool}, nil
}

func (s *pgStore) Close() { s.db.Close() }

func (s *pgStore) LoadProfile(ctx context.Context, userID int) (profile, bool, error) {
	p, err := queryOne[profile](ctx, s.db,
		`SELECT weight_kg, height_cm, age, gender, activity_level, goal, weekly_change_kg
		 FROM nutrition_profiles WHERE user_id = @userID`,
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return profile{}, false, nil
	}
	if err != nil {
		return profile{}, false, fmt.Errorf("load profile: %w", err)
	}
	return p, true, nil
}

// SaveProfile merges the profile row: update when present, insert otherwise.
func (s *pgStore) SaveProfile(ctx context.Context, userID int, p profile, t targets) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO nutrition_profiles (user_id, weight_kg, height_cm, age, gender,
			activity_level, goal, weekly_change_kg,
			target_calories, target_protein_g, target_carbs_g, target_fat_g, updated_at)
		 VALUES (@userID, @weightKG, @heightCM, @age, @gender,
			@activityLevel, @goal, @weeklyChangeKG,
			@calories, @proteinG, @carbsG, @fatG, now())
		 ON CONFLICT (user_id) DO UPDATE SET
			weight_kg = EXCLUDED.weight_kg,
			height_cm = EXCLUDED.height_cm,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			activity_level = EXCLUDED.activity_level,
			goal = EXCLUDED.goal,
			weekly_change_kg = EXCLUDED.weekly_change_kg,
			target_calories = EXCLUDED.target_calories,
			target_protein_g = EXCLUDED.target_protein_g,
			target_carbs_g = EXCLUDED.target_carbs_g,
			target_fat_g = EXCLUDED.target_fat_g,
			updated_at = now()`,
		pgx.NamedArgs{
			"userID": userID, "weightKG": p.WeightKG, "heightCM": p.HeightCM,
			"age": p.Age, "gender": string(p.Gender), "activityLevel": p.ActivityLevel,
			"goal": string(p.Goal), "weeklyChangeKG": p.WeeklyChangeKG,
			"calories": t.Calories, "proteinG": t.ProteinG,
			"carbsG": t.CarbsG, "fatG": t.FatG,
		})
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *pgStore) LoadEntries(ctx context.Context, userID int) ([]logEntry, error) {
	entries, err := queryMany[logEntry](ctx, s.db,
		`SELECT `+logEntryColumns+` FROM nutrition_log
		 WHERE user_id = @userID
		 ORDER BY id ASC`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	return entries, nil
}

// AppendEntries inserts the whole batch in one transaction.
func (s *pgStore) AppendEntries(ctx context.Context, userID int, entries []logEntry) ([]logEntry, error) {
	if len(entries) == 0 {
		return []logEntry{}, nil
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`INSERT INTO nutrition_log (user_id, date, meal, food, quantity, calories, protein, carbs, fat)
			 VALUES (@userID, @date, @meal, @food, @quantity, @calories, @protein, @carbs, @fat)
			 RETURNING `+logEntryColumns,
			pgx.NamedArgs{
				"userID": userID, "date": e.Date.Format("2006-01-02"),
				"meal": string(e.Meal), "food": e.Food, "quantity": e.Quantity,
				"calories": e.Calories, "protein": e.ProteinG,
				"carbs": e.CarbsG, "fat": e.FatG,
			})
	}

	results := tx.SendBatch(ctx, batch)
	saved := make([]logEntry, 0, len(entries))
	for range entries {
		rows, err := results.Query()
		if err != nil {
			results.Close()
			return nil, fmt.Errorf("append entry: %w", err)
		}
		e, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[logEntry])
		if err != nil {
			results.Close()
			return nil, fmt.Errorf("scan appended entry: %w", err)
		}
		saved = append(saved, e)
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("close batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}
	return saved, nil
}

func (s *pgStore) DeleteEntry(ctx context.Context, userID, id int) error {
	result, err := s.db.Exec(ctx,
		"DELETE FROM nutrition_log WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (s *pgStore) UserByUsername(ctx context.Context, username string) (user, error) {
	u, err := queryOne[user](ctx, s.db,
		"SELECT id, username, email, auth_token, password, created_at FROM users WHERE username = @username",
		pgx.NamedArgs{"username": username})
	if errors.Is(err, pgx.ErrNoRows) {
		return user{}, errNotFound
	}
	return u, err
}

func (s *pgStore) UserIDByToken(ctx context.Context, token string) (int, error) {
	var userID int
	err := s.db.QueryRow(ctx, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, errNotFound
	}
	return userID, err
}

func (s *pgStore) CreateUser(ctx context.Context, u user) (int, error) {
	var userID int
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Username, u.Email, u.Password, u.AuthToken,
	).Scan(&userID)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return userID, nil
}
