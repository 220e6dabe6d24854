// Package ledger maintains the authoritative food log for the active day
// and derives the consumed/remaining macro totals from it.
package ledger

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutriplan-backend/internal/domain"
)

// Service holds the day's logged food items. All mutation goes through it;
// items are immutable once appended and leave only via Delete or Reset.
type Service struct {
	log *slog.Logger

	mu    sync.RWMutex
	items []domain.FoodItem
}

// NewService creates an empty ledger.
func NewService(logger *slog.Logger) *Service {
	return &Service{log: logger.With("service", "ledger")}
}

// Bootstrap replaces the log with items restored from persistence.
func (s *Service) Bootstrap(items []domain.FoodItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]domain.FoodItem(nil), items...)
}

// Append adds recognized items to the end of the log.
func (s *Service) Append(items ...domain.FoodItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
}

// Delete removes the item with the given ID. Returns false when no such
// item is logged.
func (s *Service) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Reset clears the day's log.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the log in insertion order.
func (s *Service) Items() []domain.FoodItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.FoodItem(nil), s.items...)
}

// Consumed returns the element-wise sum of all logged items.
func (s *Service) Consumed() domain.Macros {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Sum(s.items)
}

// Remaining returns max(0, goal - consumed) per field.
func (s *Service) Remaining(goal domain.DailyGoal) domain.Macros {
	return domain.Remaining(goal, s.Consumed())
}
