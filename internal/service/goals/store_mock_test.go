package goals

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutriplan-backend/internal/domain"
)

var _ store = &storeMock{}

type storeMock struct {
	LoadProfileFunc func(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	SaveProfileFunc func(ctx context.Context, userID uuid.UUID, p domain.UserProfile) error
	LoadGoalFunc    func(ctx context.Context, userID uuid.UUID) (*domain.DailyGoal, error)
	SaveGoalFunc    func(ctx context.Context, userID uuid.UUID, g domain.DailyGoal) error

	mu           sync.Mutex
	savedProfile []domain.UserProfile
	savedGoal    []domain.DailyGoal
}

func (m *storeMock) LoadProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	if m.LoadProfileFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.LoadProfileFunc(ctx, userID)
}

func (m *storeMock) SaveProfile(ctx context.Context, userID uuid.UUID, p domain.UserProfile) error {
	m.mu.Lock()
	m.savedProfile = append(m.savedProfile, p)
	m.mu.Unlock()
	if m.SaveProfileFunc == nil {
		return nil
	}
	return m.SaveProfileFunc(ctx, userID, p)
}

func (m *storeMock) LoadGoal(ctx context.Context, userID uuid.UUID) (*domain.DailyGoal, error) {
	if m.LoadGoalFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.LoadGoalFunc(ctx, userID)
}

func (m *storeMock) SaveGoal(ctx context.Context, userID uuid.UUID, g domain.DailyGoal) error {
	m.mu.Lock()
	m.savedGoal = append(m.savedGoal, g)
	m.mu.Unlock()
	if m.SaveGoalFunc == nil {
		return nil
	}
	return m.SaveGoalFunc(ctx, userID, g)
}

func (m *storeMock) SaveProfileCalls() []domain.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.savedProfile
}

func (m *storeMock) SaveGoalCalls() []domain.DailyGoal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.savedGoal
}
