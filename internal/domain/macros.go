package domain

import "math"

// Macros bundles calories (kcal) with the three macronutrients (grams).
// All four fields are non-negative in stored and displayed state.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DailyGoal is the effective daily macro target. Structurally identical to
// Macros; it is persisted independently of the profile used to derive it.
type DailyGoal = Macros

// Add returns the element-wise sum of m and other.
func (m Macros) Add(other Macros) Macros {
	return Macros{
		Calories: m.Calories + other.Calories,
		Protein:  m.Protein + other.Protein,
		Carbs:    m.Carbs + other.Carbs,
		Fat:      m.Fat + other.Fat,
	}
}

// Rounded returns a copy with every field rounded to the nearest integer
// unit independently. Rounding error is accepted, not redistributed.
func (m Macros) Rounded() Macros {
	return Macros{
		Calories: math.Round(m.Calories),
		Protein:  math.Round(m.Protein),
		Carbs:    math.Round(m.Carbs),
		Fat:      math.Round(m.Fat),
	}
}

// Remaining returns max(0, goal - consumed) element-wise.
// Negative remainders are clamped to zero.
func Remaining(goal DailyGoal, consumed Macros) Macros {
	return Macros{
		Calories: math.Max(0, goal.Calories-consumed.Calories),
		Protein:  math.Max(0, goal.Protein-consumed.Protein),
		Carbs:    math.Max(0, goal.Carbs-consumed.Carbs),
		Fat:      math.Max(0, goal.Fat-consumed.Fat),
	}
}

// Sum folds the macro fields of all items into a single consumed total.
// The sum is commutative: insertion order does not affect the result.
func Sum(items []FoodItem) Macros {
	var total Macros
	for _, item := range items {
		total = total.Add(item.Macros)
	}
	return total
}
