package planner

// MealWindows returns the meal types plausible at the given hour of day.
// The table is fixed; hour is 0-23 local time.
func MealWindows(hour int) []string {
	switch {
	case hour < 11: // early morning through late breakfast
		return []string{"breakfast", "lunch", "snack", "dinner"}
	case hour < 15:
		return []string{"lunch", "snack", "dinner"}
	case hour < 17:
		return []string{"snack", "dinner"}
	case hour < 21:
		return []string{"dinner"}
	default:
		return []string{"night snack"}
	}
}

// Greeting returns a salutation for the given hour of day.
func Greeting(hour int) string {
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
