package domain

import (
	"time"

	"github.com/google/uuid"
)

// FoodItem is a single logged entry in the day's food log. Items are
// immutable once created; they are removed only by explicit deletion or a
// day reset.
type FoodItem struct {
	Macros

	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// NewFoodItem wraps recognized macros with a fresh ID and timestamp.
func NewFoodItem(name string, m Macros, now time.Time) FoodItem {
	return FoodItem{
		Macros:    m,
		ID:        uuid.New(),
		Name:      name,
		Timestamp: now.UTC(),
	}
}

// DayKey formats an instant as the calendar-day component of persistence
// keys. The food log and meal plan are scoped to one such day; rollover
// happens implicitly when the key changes.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
