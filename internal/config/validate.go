package config

import (
	"fmt"

	"github.com/google/uuid"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	id, err := uuid.Parse(c.User.IDRaw)
	if err != nil {
		return fmt.Errorf("user.id: %w", err)
	}
	if id == uuid.Nil {
		return fmt.Errorf("user.id must not be the zero UUID")
	}
	c.User.ID = id

	if err := c.Gemini.validate(); err != nil {
		return fmt.Errorf("gemini: %w", err)
	}

	if c.Session.ErrorRevertDelay <= 0 {
		return fmt.Errorf("session.error_revert_delay must be > 0 (got %v)", c.Session.ErrorRevertDelay)
	}
	if c.Session.MaxImageBytes <= 0 {
		return fmt.Errorf("session.max_image_bytes must be > 0 (got %d)", c.Session.MaxImageBytes)
	}

	if c.Planner.CalorieTolerancePct <= 0 || c.Planner.CalorieTolerancePct >= 100 {
		return fmt.Errorf("planner.calorie_tolerance_pct must be in (0, 100) (got %d)", c.Planner.CalorieTolerancePct)
	}
	if c.Planner.MacroTolerancePct <= 0 || c.Planner.MacroTolerancePct >= 100 {
		return fmt.Errorf("planner.macro_tolerance_pct must be in (0, 100) (got %d)", c.Planner.MacroTolerancePct)
	}

	return nil
}

func (g *GeminiConfig) validate() error {
	if g.TextModel == "" || g.VisionModel == "" || g.PlanModel == "" {
		return fmt.Errorf("text_model, vision_model and plan_model are all required")
	}
	if g.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", g.Timeout)
	}
	return nil
}
