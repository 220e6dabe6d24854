// Package provider defines the request/response contract shared between the
// core services and the external inference provider. Adapters decode provider
// wire formats into these shapes; services never see transport details.
package provider

// FoodResult is one recognized food item from text parsing or image
// analysis. All fields are required by the contract; the macro values are
// pointers so a field the provider omitted decodes to nil instead of a
// silent zero. The core wraps each result with a fresh ID and timestamp.
type FoodResult struct {
	Name     string   `json:"name"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
}

// PlanRequest is the structured meal-plan generation request. Remaining
// macros are pre-rounded to integers; tolerance percentages and the
// ingredient allow-list are constraints the response must satisfy.
type PlanRequest struct {
	CaloriesLeft int
	ProteinLeft  int
	CarbsLeft    int
	FatLeft      int

	// MealDirective tells the generator how many meals to produce,
	// either exactly ("Create exactly 2 meal(s)...") or qualitatively.
	MealDirective string

	// TimeOfDay is the reference wall-clock time, for meal-type labeling.
	TimeOfDay string

	// Windows are the meal types plausible at the reference time.
	Windows []string

	// Tweak is an optional free-text user instruction, advisory only.
	Tweak string

	CalorieTolerancePct int
	MacroTolerancePct   int
	AllowedIngredients  []string
}

// PlanResult is the raw generation response before normalization.
type PlanResult struct {
	Meals []MealResult `json:"meals"`
}

// MealResult is one meal as returned by the generator: macros arrive in a
// nested totals object that normalization flattens onto the domain shape.
// Totals is a pointer so a missing object is detectable as a contract
// violation rather than a zero value.
type MealResult struct {
	Name         string             `json:"name"`
	MealType     string             `json:"mealType"`
	Description  string             `json:"description"`
	Ingredients  []IngredientResult `json:"ingredients"`
	Totals       *MacroTotals       `json:"totals"`
	Instructions []string           `json:"instructions"`
	Alternative  string             `json:"alternative"`
}

// IngredientResult carries exact gram weights per ingredient.
type IngredientResult struct {
	Name     string  `json:"name"`
	Grams    float64 `json:"grams"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Calories float64 `json:"calories"`
}

// MacroTotals is the nested per-meal macro object.
type MacroTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}
