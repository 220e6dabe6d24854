package domain

import "math"

// Calorie densities per gram.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// minCalories is the safety floor applied to every calculated target.
const minCalories = 1200

// Calorie adjustment applied on top of TDEE per goal.
const (
	loseDeficit = 500
	gainSurplus = 300
)

// activityMultipliers convert BMR to total daily energy expenditure.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary: 1.2,   // little or no exercise
	ActivityLight:     1.375, // light exercise 1-3 days/week
	ActivityModerate:  1.55,  // moderate exercise 3-5 days/week
	ActivityHeavy:     1.725, // hard exercise 6-7 days/week
}

// macroSplit holds the per-goal split parameters: protein in grams per kg
// of body weight and fat as a fraction of target calories. Carbs are always
// the remainder.
type macroSplit struct {
	proteinPerKg float64
	fatFraction  float64
}

var macroSplits = map[GoalType]macroSplit{
	GoalLose:     {proteinPerKg: 2.2, fatFraction: 0.30}, // high protein to spare muscle
	GoalGain:     {proteinPerKg: 2.0, fatFraction: 0.25}, // higher carb, moderate protein
	GoalMaintain: {proteinPerKg: 1.6, fatFraction: 0.30},
}

// CalculateTargets derives a daily macro/calorie goal from a profile.
// Deterministic and total: every profile yields a goal, never an error.
//
// BMR uses the Mifflin-St Jeor equation:
//
//	bmr = 10*weight + 6.25*height - 5*age + (5 male / -161 female)
//
// TDEE applies the activity multiplier (unknown levels fall back to
// sedentary), the goal adjustment subtracts 500 kcal for lose or adds
// 300 kcal for gain, and the result is floored at 1200 kcal. The split
// fixes protein first, then fat, then derives carbs from the remaining
// calories, floored at zero. Each output is rounded independently.
func CalculateTargets(p UserProfile) DailyGoal {
	bmr := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	if p.Gender == GenderMale {
		bmr += 5
	} else {
		bmr -= 161
	}

	multiplier, ok := activityMultipliers[p.Activity]
	if !ok {
		multiplier = activityMultipliers[ActivitySedentary]
	}
	tdee := bmr * multiplier

	switch p.Goal {
	case GoalLose:
		tdee -= loseDeficit
	case GoalGain:
		tdee += gainSurplus
	}

	targetCalories := math.Max(minCalories, math.Round(tdee))

	split, ok := macroSplits[p.Goal]
	if !ok {
		split = macroSplits[GoalMaintain]
	}

	protein := p.Weight * split.proteinPerKg
	fatCals := targetCalories * split.fatFraction
	fat := fatCals / kcalPerGramFat
	remainingCals := targetCalories - fatCals - protein*kcalPerGramProtein
	carbs := math.Max(0, remainingCals/kcalPerGramCarbs)

	return DailyGoal{
		Calories: targetCalories,
		Protein:  math.Round(protein),
		Carbs:    math.Round(carbs),
		Fat:      math.Round(fat),
	}
}

// RecommendedMealCount maps remaining calories to a default number of meals
// to request. An explicit caller-supplied count always overrides it.
func RecommendedMealCount(caloriesLeft float64) int {
	if caloriesLeft < 400 {
		return 1
	}
	if caloriesLeft < 900 {
		return 2
	}
	return 3
}

// DefaultProfile is the starting profile shown on first run.
func DefaultProfile() UserProfile {
	return UserProfile{
		Gender:   GenderMale,
		Age:      30,
		Height:   175,
		Weight:   75,
		Activity: ActivityModerate,
		Goal:     GoalMaintain,
	}
}

// DefaultGoal is the fallback daily target used before any profile or
// manual goal has been saved.
func DefaultGoal() DailyGoal {
	return DailyGoal{Calories: 2200, Protein: 150, Carbs: 200, Fat: 70}
}
