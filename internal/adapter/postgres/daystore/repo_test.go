package daystore

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/nutriplan-backend/internal/domain"
)

func newTestRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repo := New(mock, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return repo, mock
}

func TestRepo_SaveProfile(t *testing.T) {
	userID := uuid.New()
	repo, mock := newTestRepo(t)

	profile := domain.DefaultProfile()
	payload, err := json.Marshal(profile)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO day_records`).
		WithArgs(userID, keyProfile, payload, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.SaveProfile(context.Background(), userID, profile))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_LoadProfile(t *testing.T) {
	userID := uuid.New()
	repo, mock := newTestRepo(t)

	saved := domain.DefaultProfile()
	saved.Weight = 82
	saved.IsManual = true
	payload, err := json.Marshal(saved)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT payload FROM day_records`).
		WithArgs(userID, keyProfile).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := repo.LoadProfile(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, saved, *got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_LoadProfile_NotFound(t *testing.T) {
	userID := uuid.New()
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`SELECT payload FROM day_records`).
		WithArgs(userID, keyProfile).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}))

	_, err := repo.LoadProfile(context.Background(), userID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_LoadProfile_MalformedPayload(t *testing.T) {
	userID := uuid.New()
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`SELECT payload FROM day_records`).
		WithArgs(userID, keyProfile).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow([]byte(`"not a profile"`)))

	_, err := repo.LoadProfile(context.Background(), userID)

	// Corrupt payloads degrade to a first-run, not a startup failure.
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_SaveAndLoadGoal(t *testing.T) {
	userID := uuid.New()
	repo, mock := newTestRepo(t)

	goal := domain.DailyGoal{Calories: 2450, Protein: 160, Carbs: 210, Fat: 75}
	payload, err := json.Marshal(goal)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO day_records`).
		WithArgs(userID, keyGoal, payload, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT payload FROM day_records`).
		WithArgs(userID, keyGoal).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	require.NoError(t, repo.SaveGoal(context.Background(), userID, goal))

	got, err := repo.LoadGoal(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, goal, *got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_SaveFoodLog_KeyCarriesDay(t *testing.T) {
	userID := uuid.New()
	repo, mock := newTestRepo(t)

	items := []domain.FoodItem{
		domain.NewFoodItem("oatmeal", domain.Macros{Calories: 300, Protein: 10, Carbs: 50, Fat: 6}, time.Now()),
	}
	payload, err := json.Marshal(items)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO day_records`).
		WithArgs(userID, "food_log:2026-09-01", payload, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.SaveFoodLog(context.Background(), userID, "2026-09-01", items))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_SaveFoodLog_NilBecomesEmptyArray(t *testing.T) {
	userID := uuid.New()
	repo, mock := newTestRepo(t)

	mock.ExpectExec(`INSERT INTO day_records`).
		WithArgs(userID, "food_log:2026-09-01", []byte("[]"), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.SaveFoodLog(context.Background(), userID, "2026-09-01", nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_LoadFoodLog(t *testing.T) {
	userID := uuid.New()
	repo, mock := newTestRepo(t)

	items := []domain.FoodItem{
		domain.NewFoodItem("toast", domain.Macros{Calories: 150, Protein: 5, Carbs: 25, Fat: 3}, time.Now()),
	}
	payload, err := json.Marshal(items)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT payload FROM day_records`).
		WithArgs(userID, "food_log:2026-09-01").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := repo.LoadFoodLog(context.Background(), userID, "2026-09-01")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "toast", got[0].Name)
	assert.Equal(t, items[0].ID, got[0].ID)
}

func TestRepo_LoadFoodLog_AbsentIsEmptyDay(t *testing.T) {
	userID := uuid.New()
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`SELECT payload FROM day_records`).
		WithArgs(userID, "food_log:2026-09-01").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}))

	got, err := repo.LoadFoodLog(context.Background(), userID, "2026-09-01")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepo_SaveAndLoadPlan_KeyCarriesDay(t *testing.T) {
	userID := uuid.New()
	repo, mock := newTestRepo(t)

	meals := []domain.MealSuggestion{{
		ID:       uuid.New(),
		Name:     "Salmon bowl",
		MealType: "Lunch",
		Macros:   domain.Macros{Calories: 550, Protein: 40, Carbs: 45, Fat: 22},
	}}
	payload, err := json.Marshal(meals)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO day_records`).
		WithArgs(userID, "plan:2026-09-01", payload, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT payload FROM day_records`).
		WithArgs(userID, "plan:2026-09-01").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	require.NoError(t, repo.SavePlan(context.Background(), userID, "2026-09-01", meals))

	got, err := repo.LoadPlan(context.Background(), userID, "2026-09-01")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, meals[0].ID, got[0].ID)
	assert.Equal(t, "Salmon bowl", got[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_SavePlan_NilBecomesEmptyArray(t *testing.T) {
	userID := uuid.New()
	repo, mock := newTestRepo(t)

	mock.ExpectExec(`INSERT INTO day_records`).
		WithArgs(userID, "plan:2026-09-01", []byte("[]"), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.SavePlan(context.Background(), userID, "2026-09-01", nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_LoadPlan_AbsentIsNoPlan(t *testing.T) {
	userID := uuid.New()
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`SELECT payload FROM day_records`).
		WithArgs(userID, "plan:2026-09-01").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}))

	got, err := repo.LoadPlan(context.Background(), userID, "2026-09-01")

	require.NoError(t, err)
	assert.Nil(t, got)
}
