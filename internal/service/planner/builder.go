// Package planner builds structured meal-plan generation requests from the
// day's remaining macros and validates/normalizes generation responses into
// the app's meal-suggestion shape.
package planner

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutriplan-backend/internal/config"
	"github.com/heartmarshall/nutriplan-backend/internal/domain"
	"github.com/heartmarshall/nutriplan-backend/internal/provider"
)

// allowedIngredients is the fixed allow-list constraint sent with every
// generation request. No exotic ingredients.
var allowedIngredients = []string{
	"lean meats", "eggs", "fish", "veggies", "rice", "potatoes", "oats",
	"fruit", "nut butters", "greek yogurt", "tofu", "beans", "bread", "pasta",
}

// Builder constructs plan requests and normalizes plan responses.
type Builder struct {
	log                 *slog.Logger
	calorieTolerancePct int
	macroTolerancePct   int
}

// NewBuilder creates a Builder with the configured tolerance rules.
func NewBuilder(logger *slog.Logger, cfg config.PlannerConfig) *Builder {
	return &Builder{
		log:                 logger.With("service", "planner"),
		calorieTolerancePct: cfg.CalorieTolerancePct,
		macroTolerancePct:   cfg.MacroTolerancePct,
	}
}

// BuildRequest turns the remaining macros, a reference time, an optional
// free-text tweak and an optional explicit meal count into a structured
// generation request. An explicit mealCount > 0 overrides the heuristic.
func (b *Builder) BuildRequest(remaining domain.Macros, now time.Time, tweak string, mealCount int) provider.PlanRequest {
	rounded := remaining.Rounded()

	return provider.PlanRequest{
		CaloriesLeft:        int(rounded.Calories),
		ProteinLeft:         int(rounded.Protein),
		CarbsLeft:           int(rounded.Carbs),
		FatLeft:             int(rounded.Fat),
		MealDirective:       mealDirective(remaining.Calories, mealCount),
		TimeOfDay:           now.Format("3:04 PM"),
		Windows:             MealWindows(now.Hour()),
		Tweak:               tweak,
		CalorieTolerancePct: b.calorieTolerancePct,
		MacroTolerancePct:   b.macroTolerancePct,
		AllowedIngredients:  allowedIngredients,
	}
}

// mealDirective resolves the meal-count instruction: an explicit count wins;
// otherwise the remaining calories pick a qualitative phrase.
func mealDirective(caloriesLeft float64, mealCount int) string {
	if mealCount > 0 {
		return fmt.Sprintf("Create exactly %d meal(s) that fit the remaining intake.", mealCount)
	}
	switch {
	case caloriesLeft < 400:
		return "Create 1 small meal/snack."
	case caloriesLeft < 900:
		return "Create 1 medium meal."
	default:
		return "Create 2-3 meals."
	}
}

// NormalizePlan validates a generation response and maps it onto the
// domain meal-suggestion shape: nested totals are flattened onto the
// top-level macro fields, ingredient detail arrays pass through unchanged,
// and each meal gets a stable local ID. A response missing required fields
// fails as a whole; nothing is silently repaired.
func (b *Builder) NormalizePlan(res *provider.PlanResult) ([]domain.MealSuggestion, error) {
	if res == nil {
		return nil, fmt.Errorf("empty response: %w", domain.ErrPlanGeneration)
	}

	meals := make([]domain.MealSuggestion, 0, len(res.Meals))
	for i, m := range res.Meals {
		if err := validateMeal(i, m); err != nil {
			return nil, fmt.Errorf("%v: %w", err, domain.ErrPlanGeneration)
		}

		ingredients := make([]domain.Ingredient, 0, len(m.Ingredients))
		for _, ing := range m.Ingredients {
			ingredients = append(ingredients, domain.Ingredient{
				Name:     ing.Name,
				Grams:    ing.Grams,
				Protein:  ing.Protein,
				Carbs:    ing.Carbs,
				Fat:      ing.Fat,
				Calories: ing.Calories,
			})
		}

		meals = append(meals, domain.MealSuggestion{
			Macros: domain.Macros{
				Calories: m.Totals.Calories,
				Protein:  m.Totals.Protein,
				Carbs:    m.Totals.Carbs,
				Fat:      m.Totals.Fat,
			},
			ID:           uuid.New(),
			Name:         m.Name,
			MealType:     m.MealType,
			Description:  m.Description,
			Ingredients:  ingredients,
			Instructions: m.Instructions,
			Alternative:  m.Alternative,
		})
	}

	return meals, nil
}

// validateMeal checks the required fields of one returned meal.
func validateMeal(i int, m provider.MealResult) error {
	if m.Name == "" {
		return fmt.Errorf("meal %d has no name", i)
	}
	if m.MealType == "" {
		return fmt.Errorf("meal %d (%q) has no mealType", i, m.Name)
	}
	if m.Totals == nil {
		return fmt.Errorf("meal %d (%q) has no totals", i, m.Name)
	}
	for j, ing := range m.Ingredients {
		if ing.Name == "" {
			return fmt.Errorf("ingredient %d of meal %q has no name", j, m.Name)
		}
	}
	return nil
}

// CheckTolerances compares a normalized plan against the tolerance rules
// that were sent with the request. Violations are logged, not rejected:
// the provider is instructed to satisfy them, and the ledger stays correct
// either way, so drift is surfaced without breaking the flow.
func (b *Builder) CheckTolerances(req provider.PlanRequest, meals []domain.MealSuggestion) {
	total := domain.Macros{}
	for _, m := range meals {
		total = total.Add(m.Macros)
	}

	check := func(field string, got, want float64, tolerancePct int) {
		if want <= 0 {
			return
		}
		deviation := math.Abs(got-want) / want * 100
		if deviation > float64(tolerancePct) {
			b.log.Warn("plan outside tolerance",
				slog.String("field", field),
				slog.Float64("requested", want),
				slog.Float64("returned", got),
				slog.Float64("deviation_pct", math.Round(deviation*10)/10),
			)
		}
	}

	check("calories", total.Calories, float64(req.CaloriesLeft), b.calorieTolerancePct)
	check("protein", total.Protein, float64(req.ProteinLeft), b.macroTolerancePct)
	check("carbs", total.Carbs, float64(req.CarbsLeft), b.macroTolerancePct)
	check("fat", total.Fat, float64(req.FatLeft), b.macroTolerancePct)
}
