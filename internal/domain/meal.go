package domain

import "github.com/google/uuid"

// Ingredient is one component of a suggested meal, with an exact gram
// weight and its macro contribution.
type Ingredient struct {
	Name     string  `json:"name"`
	Grams    float64 `json:"grams"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Calories float64 `json:"calories"`
}

// MealSuggestion is one meal from a generated plan. The ID is assigned
// locally at normalization time so a suggestion can be addressed (for
// quick-logging) regardless of deduplication or reordering.
//
// MealType is free-form ("Breakfast", "Lunch", "Night Snack", ...); the
// generator labels it from the time of day.
type MealSuggestion struct {
	Macros

	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	MealType     string       `json:"mealType"`
	Description  string       `json:"description"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Alternative  string       `json:"alternative"`
}
