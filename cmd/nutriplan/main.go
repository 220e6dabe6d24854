// Command nutriplan is a one-shot nutrition tracking CLI. Each invocation
// loads the saved profile, goal and today's food log, applies at most one
// mutating operation, prints the day summary and exits.
//
// Operations:
//
//	-log "two eggs and toast"   parse and log a free-text food entry
//	-image breakfast.jpg        analyze and log a food photo
//	-plan                       generate a meal plan (-tweak, -meals refine it)
//	-quicklog <meal-id>         log a suggested meal from the last plan
//	-delete <item-id>           remove a logged item
//	-reset                      clear today's log
//
// Profile flags (-gender, -age, -height, -weight, -activity, -goal-type)
// and goal flags (-manual, -calories, -protein, -carbs, -fat) update the
// saved settings before the operation runs.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/heartmarshall/nutriplan-backend/internal/app"
	"github.com/heartmarshall/nutriplan-backend/internal/domain"
	"github.com/heartmarshall/nutriplan-backend/internal/service/goals"
	"github.com/heartmarshall/nutriplan-backend/internal/service/planner"
	"github.com/heartmarshall/nutriplan-backend/pkg/ctxutil"
)

type cliFlags struct {
	logText  string
	image    string
	plan     bool
	tweak    string
	meals    int
	quickLog string
	deleteID string
	reset    bool

	gender   string
	age      int
	height   float64
	weight   float64
	activity string
	goalType string

	manual   bool
	calories float64
	protein  float64
	carbs    float64
	fat      float64

	set map[string]bool
}

func main() {
	if err := run(); err != nil {
		slog.Error("nutriplan failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// Missing .env is fine; config falls back to real env and defaults.
	_ = godotenv.Load()

	flags := parseFlags()
	ctx := context.Background()

	a, err := app.Bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx = ctxutil.WithUserID(ctx, a.Cfg.User.ID)

	if err := a.Goals.Load(ctx); err != nil {
		return err
	}
	if a.Goals.FirstRun() {
		fmt.Println("No saved profile found. Using defaults; set yours with -gender, -age, -height, -weight, -activity, -goal-type.")
	}

	if err := applySettings(ctx, a.Goals, flags); err != nil {
		return err
	}

	if err := a.Session.Bootstrap(ctx); err != nil {
		return err
	}

	if err := runOperation(ctx, a, flags); err != nil {
		if msg := a.Session.ErrorMessage(); msg != "" {
			fmt.Println(msg)
		}
		return err
	}

	printSummary(a)
	return nil
}

func parseFlags() *cliFlags {
	f := &cliFlags{}

	flag.StringVar(&f.logText, "log", "", "free-text food description to parse and log")
	flag.StringVar(&f.image, "image", "", "path to a food photo to analyze and log")
	flag.BoolVar(&f.plan, "plan", false, "generate a meal plan for the remaining macros")
	flag.StringVar(&f.tweak, "tweak", "", "free-text instruction for plan generation")
	flag.IntVar(&f.meals, "meals", 0, "exact number of meals to plan (0 = automatic)")
	flag.StringVar(&f.quickLog, "quicklog", "", "ID of a suggested meal to log as eaten")
	flag.StringVar(&f.deleteID, "delete", "", "ID of a logged item to remove")
	flag.BoolVar(&f.reset, "reset", false, "clear today's food log")

	flag.StringVar(&f.gender, "gender", "", "profile gender (male, female)")
	flag.IntVar(&f.age, "age", 0, "profile age in years")
	flag.Float64Var(&f.height, "height", 0, "profile height in cm")
	flag.Float64Var(&f.weight, "weight", 0, "profile weight in kg")
	flag.StringVar(&f.activity, "activity", "", "activity level (sedentary, light, moderate, heavy)")
	flag.StringVar(&f.goalType, "goal-type", "", "goal (lose, maintain, gain)")

	flag.BoolVar(&f.manual, "manual", false, "enable manual goal mode")
	flag.Float64Var(&f.calories, "calories", 0, "manual calorie target")
	flag.Float64Var(&f.protein, "protein", 0, "manual protein target in grams")
	flag.Float64Var(&f.carbs, "carbs", 0, "manual carb target in grams")
	flag.Float64Var(&f.fat, "fat", 0, "manual fat target in grams")

	flag.Parse()

	f.set = make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f
}

// applySettings pushes explicitly set profile and goal flags into the
// reconciler and commits when anything changed.
func applySettings(ctx context.Context, svc *goals.Service, f *cliFlags) error {
	changed := false

	if f.set["manual"] {
		svc.SetManualMode(f.manual)
		changed = true
	}

	profile := goals.UpdateProfileInput{}
	if f.set["gender"] {
		g := domain.Gender(f.gender)
		profile.Gender = &g
	}
	if f.set["age"] {
		profile.Age = &f.age
	}
	if f.set["height"] {
		profile.Height = &f.height
	}
	if f.set["weight"] {
		profile.Weight = &f.weight
	}
	if f.set["activity"] {
		a := domain.ActivityLevel(f.activity)
		profile.Activity = &a
	}
	if f.set["goal-type"] {
		g := domain.GoalType(f.goalType)
		profile.Goal = &g
	}
	if profile != (goals.UpdateProfileInput{}) {
		if err := svc.UpdateProfile(profile); err != nil {
			return err
		}
		changed = true
	}

	goal := goals.UpdateGoalInput{}
	if f.set["calories"] {
		goal.Calories = &f.calories
	}
	if f.set["protein"] {
		goal.Protein = &f.protein
	}
	if f.set["carbs"] {
		goal.Carbs = &f.carbs
	}
	if f.set["fat"] {
		goal.Fat = &f.fat
	}
	if goal != (goals.UpdateGoalInput{}) {
		if err := svc.UpdateGoal(goal); err != nil {
			return err
		}
		changed = true
	}

	if changed || svc.FirstRun() {
		return svc.Commit(ctx)
	}
	return nil
}

// runOperation executes the single mutating operation selected by flags.
func runOperation(ctx context.Context, a *app.App, f *cliFlags) error {
	switch {
	case f.logText != "":
		items, err := a.Session.LogFoodText(ctx, f.logText)
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Printf("Logged: %s (%0.f kcal)\n", item.Name, item.Calories)
		}
		return nil

	case f.image != "":
		data, err := os.ReadFile(f.image)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		items, err := a.Session.LogFoodImage(ctx, data, mimeTypeForPath(f.image))
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Printf("Logged: %s (%0.f kcal)\n", item.Name, item.Calories)
		}
		return nil

	case f.plan:
		meals, err := a.Session.GeneratePlan(ctx, f.tweak, f.meals)
		if err != nil {
			return err
		}
		printPlan(meals)
		return nil

	case f.quickLog != "":
		id, err := uuid.Parse(f.quickLog)
		if err != nil {
			return fmt.Errorf("parse meal id: %w", err)
		}
		item, err := a.Session.QuickLog(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("Logged: %s (%0.f kcal)\n", item.Name, item.Calories)
		return nil

	case f.deleteID != "":
		id, err := uuid.Parse(f.deleteID)
		if err != nil {
			return fmt.Errorf("parse item id: %w", err)
		}
		return a.Session.DeleteFood(ctx, id)

	case f.reset:
		if err := a.Session.ResetDay(ctx); err != nil {
			return err
		}
		fmt.Println("Today's log cleared.")
		return nil
	}

	return nil
}

func printSummary(a *app.App) {
	now := time.Now()
	goal := a.Goals.EffectiveGoal()
	consumed := a.Ledger.Consumed()
	remaining := a.Ledger.Remaining(goal)

	fmt.Printf("\n%s\n", planner.Greeting(now.Hour()))
	if a.Goals.ManualMode() {
		fmt.Println("Goals: manual")
	}
	fmt.Printf("Goal:      %4.0f kcal  %3.0fP %3.0fC %3.0fF\n", goal.Calories, goal.Protein, goal.Carbs, goal.Fat)
	fmt.Printf("Consumed:  %4.0f kcal  %3.0fP %3.0fC %3.0fF\n", consumed.Calories, consumed.Protein, consumed.Carbs, consumed.Fat)
	fmt.Printf("Remaining: %4.0f kcal  %3.0fP %3.0fC %3.0fF\n", remaining.Calories, remaining.Protein, remaining.Carbs, remaining.Fat)
	if remaining.Calories > 0 {
		fmt.Printf("Suggested meals left today: %d\n", domain.RecommendedMealCount(remaining.Calories))
	}

	items := a.Ledger.Items()
	if len(items) > 0 {
		fmt.Println("\nToday's log:")
		for _, item := range items {
			fmt.Printf("  %s  %-24s %4.0f kcal  (%s)\n",
				item.Timestamp.Local().Format("15:04"), item.Name, item.Calories, item.ID)
		}
	}

	// The plan survives across invocations, so re-surface the quick-log IDs.
	if plan := a.Session.Plan(); len(plan) > 0 {
		fmt.Println("\nActive plan:")
		for _, m := range plan {
			fmt.Printf("  [%s] %-24s %4.0f kcal  (-quicklog %s)\n",
				m.MealType, m.Name, m.Calories, m.ID)
		}
	}
}

func printPlan(meals []domain.MealSuggestion) {
	fmt.Printf("\nPlanned %d meal(s):\n", len(meals))
	for _, m := range meals {
		fmt.Printf("\n[%s] %s: %0.f kcal (%0.fP/%0.fC/%0.fF)\n",
			m.MealType, m.Name, m.Calories, m.Protein, m.Carbs, m.Fat)
		if m.Description != "" {
			fmt.Printf("  %s\n", m.Description)
		}
		for _, ing := range m.Ingredients {
			fmt.Printf("  - %s (%0.fg)\n", ing.Name, ing.Grams)
		}
		for i, step := range m.Instructions {
			fmt.Printf("  %d. %s\n", i+1, step)
		}
		if m.Alternative != "" {
			fmt.Printf("  Alternative: %s\n", m.Alternative)
		}
		fmt.Printf("  Quick-log with: -quicklog %s\n", m.ID)
	}
}

// mimeTypeForPath infers the image MIME type from the file extension.
func mimeTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
