package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutriplan-backend/internal/domain"
	"github.com/heartmarshall/nutriplan-backend/internal/provider"
)

var _ FoodRecognizer = &recognizerMock{}

type recognizerMock struct {
	ParseFoodTextFunc    func(ctx context.Context, description string) ([]provider.FoodResult, error)
	AnalyzeFoodImageFunc func(ctx context.Context, image []byte, mimeType string) ([]provider.FoodResult, error)
}

func (m *recognizerMock) ParseFoodText(ctx context.Context, description string) ([]provider.FoodResult, error) {
	return m.ParseFoodTextFunc(ctx, description)
}

func (m *recognizerMock) AnalyzeFoodImage(ctx context.Context, image []byte, mimeType string) ([]provider.FoodResult, error) {
	return m.AnalyzeFoodImageFunc(ctx, image, mimeType)
}

var _ PlanGenerator = &generatorMock{}

type generatorMock struct {
	GeneratePlanFunc func(ctx context.Context, req provider.PlanRequest) (*provider.PlanResult, error)
}

func (m *generatorMock) GeneratePlan(ctx context.Context, req provider.PlanRequest) (*provider.PlanResult, error) {
	return m.GeneratePlanFunc(ctx, req)
}

var _ goalSource = goalSourceMock{}

type goalSourceMock struct {
	goal domain.DailyGoal
}

func (m goalSourceMock) EffectiveGoal() domain.DailyGoal { return m.goal }

var _ dayStore = &dayStoreMock{}

type dayStoreMock struct {
	LoadFoodLogFunc func(ctx context.Context, userID uuid.UUID, day string) ([]domain.FoodItem, error)
	LoadPlanFunc    func(ctx context.Context, userID uuid.UUID, day string) ([]domain.MealSuggestion, error)

	mu         sync.Mutex
	saved      [][]domain.FoodItem
	savedPlans [][]domain.MealSuggestion
}

func (m *dayStoreMock) SaveFoodLog(ctx context.Context, userID uuid.UUID, day string, items []domain.FoodItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, append([]domain.FoodItem(nil), items...))
	return nil
}

func (m *dayStoreMock) LoadFoodLog(ctx context.Context, userID uuid.UUID, day string) ([]domain.FoodItem, error) {
	if m.LoadFoodLogFunc == nil {
		return nil, nil
	}
	return m.LoadFoodLogFunc(ctx, userID, day)
}

func (m *dayStoreMock) SavePlan(ctx context.Context, userID uuid.UUID, day string, meals []domain.MealSuggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savedPlans = append(m.savedPlans, append([]domain.MealSuggestion(nil), meals...))
	return nil
}

func (m *dayStoreMock) LoadPlan(ctx context.Context, userID uuid.UUID, day string) ([]domain.MealSuggestion, error) {
	if m.LoadPlanFunc == nil {
		return nil, nil
	}
	return m.LoadPlanFunc(ctx, userID, day)
}

func (m *dayStoreMock) SaveCalls() [][]domain.FoodItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved
}

func (m *dayStoreMock) SavePlanCalls() [][]domain.MealSuggestion {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.savedPlans
}
