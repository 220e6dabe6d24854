// Package daystore persists per-user day records (profile, goal, the daily
// food log and the active meal plan) as JSONB payloads keyed by user and
// record key.
package daystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/nutriplan-backend/internal/adapter/postgres"
	"github.com/heartmarshall/nutriplan-backend/internal/domain"
)

const table = "day_records"

// Record keys within a user's row set. The food log and plan keys carry
// the day suffix so each calendar day gets its own records.
const (
	keyProfile    = "profile"
	keyGoal       = "goal"
	keyFoodLogFmt = "food_log:%s"
	keyPlanFmt    = "plan:%s"
)

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo reads and writes day records.
type Repo struct {
	db  postgres.Querier
	log *slog.Logger
}

// New creates a day-record repository.
func New(db postgres.Querier, logger *slog.Logger) *Repo {
	return &Repo{
		db:  db,
		log: logger.With("adapter", "daystore"),
	}
}

// SaveProfile upserts the user's profile record.
func (r *Repo) SaveProfile(ctx context.Context, userID uuid.UUID, p domain.UserProfile) error {
	return r.save(ctx, userID, keyProfile, p)
}

// LoadProfile returns the saved profile, or ErrNotFound when absent.
func (r *Repo) LoadProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := r.load(ctx, userID, keyProfile, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveGoal upserts the user's goal record.
func (r *Repo) SaveGoal(ctx context.Context, userID uuid.UUID, g domain.DailyGoal) error {
	return r.save(ctx, userID, keyGoal, g)
}

// LoadGoal returns the saved goal, or ErrNotFound when absent.
func (r *Repo) LoadGoal(ctx context.Context, userID uuid.UUID) (*domain.DailyGoal, error) {
	var g domain.DailyGoal
	if err := r.load(ctx, userID, keyGoal, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// SaveFoodLog upserts the food log for the given day.
func (r *Repo) SaveFoodLog(ctx context.Context, userID uuid.UUID, day string, items []domain.FoodItem) error {
	if items == nil {
		items = []domain.FoodItem{}
	}
	return r.save(ctx, userID, fmt.Sprintf(keyFoodLogFmt, day), items)
}

// LoadFoodLog returns the food log for the given day. An absent record is
// a normal empty day, not an error.
func (r *Repo) LoadFoodLog(ctx context.Context, userID uuid.UUID, day string) ([]domain.FoodItem, error) {
	var items []domain.FoodItem
	err := r.load(ctx, userID, fmt.Sprintf(keyFoodLogFmt, day), &items)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return items, nil
}

// SavePlan upserts the active meal plan for the given day. A cleared plan
// is stored as an empty array, overwriting any stale one.
func (r *Repo) SavePlan(ctx context.Context, userID uuid.UUID, day string, meals []domain.MealSuggestion) error {
	if meals == nil {
		meals = []domain.MealSuggestion{}
	}
	return r.save(ctx, userID, fmt.Sprintf(keyPlanFmt, day), meals)
}

// LoadPlan returns the active plan for the given day. An absent record
// means no plan has been generated, not an error.
func (r *Repo) LoadPlan(ctx context.Context, userID uuid.UUID, day string) ([]domain.MealSuggestion, error) {
	var meals []domain.MealSuggestion
	err := r.load(ctx, userID, fmt.Sprintf(keyPlanFmt, day), &meals)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return meals, nil
}

// save marshals the value and upserts it under (userID, key).
func (r *Repo) save(ctx context.Context, userID uuid.UUID, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("daystore: marshal %s: %w", key, err)
	}

	query := qb.Insert(table).
		Columns("user_id", "record_key", "payload", "updated_at").
		Values(userID, key, payload, time.Now().UTC()).
		Suffix("ON CONFLICT (user_id, record_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at")

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("daystore: build query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return mapError(err, key, userID)
	}
	return nil
}

// load reads the payload under (userID, key) into dst. A record whose
// payload no longer unmarshals is logged and treated as absent, so one
// corrupt row cannot brick startup.
func (r *Repo) load(ctx context.Context, userID uuid.UUID, key string, dst any) error {
	query := qb.Select("payload").
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"record_key": key})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("daystore: build query: %w", err)
	}

	var payload []byte
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&payload); err != nil {
		return mapError(err, key, userID)
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		r.log.WarnContext(ctx, "malformed day record, treating as absent",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return fmt.Errorf("record %s: %w", key, domain.ErrNotFound)
	}
	return nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, key string, userID uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("record %s for %s: %w", key, userID, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("record %s for %s: %w", key, userID, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" { // check_violation
		return fmt.Errorf("record %s for %s: %w", key, userID, domain.ErrValidation)
	}

	return fmt.Errorf("record %s for %s: %w", key, userID, err)
}
