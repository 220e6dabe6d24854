// Package goals implements the goal reconciler: it merges calculated
// targets with an optional manual override and owns the manual/auto mode
// toggle. All goal and profile mutation routes through it so the override
// lifecycle is enforced in one place.
package goals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutriplan-backend/internal/domain"
	"github.com/heartmarshall/nutriplan-backend/pkg/ctxutil"
)

// store defines the persistence operations needed by the reconciler.
type store interface {
	LoadProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	SaveProfile(ctx context.Context, userID uuid.UUID, p domain.UserProfile) error
	LoadGoal(ctx context.Context, userID uuid.UUID) (*domain.DailyGoal, error)
	SaveGoal(ctx context.Context, userID uuid.UUID, g domain.DailyGoal) error
}

// Service reconciles calculated targets with manual overrides.
//
// The manual toggle and override presence are tracked separately: editing a
// goal field creates an override (implicitly entering manual mode at commit
// time) without requiring the toggle to be flipped first.
type Service struct {
	log   *slog.Logger
	store store

	mu       sync.Mutex
	profile  domain.UserProfile
	override *domain.DailyGoal
	manual   bool
	firstRun bool
}

// NewService creates a reconciler in its default, profile-driven state.
func NewService(logger *slog.Logger, store store) *Service {
	return &Service{
		log:     logger.With("service", "goals"),
		store:   store,
		profile: domain.DefaultProfile(),
	}
}

// Load bootstraps the reconciler from persistence. An absent profile record
// signals a first run: the default profile is kept and FirstRun reports
// true so the caller can force the setup flow open. A saved manual profile
// restores its goal record as the override.
func (s *Service) Load(ctx context.Context) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	profile, err := s.store.LoadProfile(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.mu.Lock()
		s.firstRun = true
		s.mu.Unlock()
		return nil
	case err != nil:
		return fmt.Errorf("goals.Load: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = *profile
	s.manual = profile.IsManual
	s.firstRun = false
	s.override = nil

	if profile.IsManual {
		goal, err := s.store.LoadGoal(ctx, userID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// Manual profile with no goal record: fall back to the
			// stock default rather than silently recalculating.
			fallback := domain.DefaultGoal()
			s.override = &fallback
		case err != nil:
			return fmt.Errorf("goals.Load: %w", err)
		default:
			s.override = goal
		}
	}

	return nil
}

// FirstRun reports whether no saved profile was found at Load time.
func (s *Service) FirstRun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstRun
}

// Profile returns the current profile.
func (s *Service) Profile() domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// ManualMode reports the state of the manual toggle.
func (s *Service) ManualMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manual
}

// SetManualMode flips the manual toggle. Turning it on with no existing
// override seeds the override from the current calculated goal, so manual
// editing starts from a sane baseline. Turning it off discards the
// override and resumes calculated goals.
func (s *Service) SetManualMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.manual = on
	if on && s.override == nil {
		calculated := domain.CalculateTargets(s.profile)
		s.override = &calculated
	} else if !on {
		s.override = nil
	}
}

// UpdateProfile applies biometric changes. While manual mode is on the
// update is a no-op: manual mode freezes computed-target inputs. A
// successful update discards any stale override so the next read reflects
// a fresh calculation.
func (s *Service) UpdateProfile(input UpdateProfileInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.manual {
		s.log.Debug("profile update ignored in manual mode")
		return nil
	}

	if input.Gender != nil {
		s.profile.Gender = *input.Gender
	}
	if input.Age != nil {
		s.profile.Age = *input.Age
	}
	if input.Height != nil {
		s.profile.Height = *input.Height
	}
	if input.Weight != nil {
		s.profile.Weight = *input.Weight
	}
	if input.Activity != nil {
		s.profile.Activity = *input.Activity
	}
	if input.Goal != nil {
		s.profile.Goal = *input.Goal
	}

	s.override = nil
	return nil
}

// UpdateGoal applies manual target changes. Always permitted; when no
// override exists yet it is seeded from the current effective goal, so a
// single-field edit does not reset the other three fields.
func (s *Service) UpdateGoal(input UpdateGoalInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.override == nil {
		seed := s.effectiveGoalLocked()
		s.override = &seed
	}

	if input.Calories != nil {
		s.override.Calories = *input.Calories
	}
	if input.Protein != nil {
		s.override.Protein = *input.Protein
	}
	if input.Carbs != nil {
		s.override.Carbs = *input.Carbs
	}
	if input.Fat != nil {
		s.override.Fat = *input.Fat
	}

	return nil
}

// EffectiveGoal returns the override when present, otherwise the
// calculated targets for the current profile.
func (s *Service) EffectiveGoal() domain.DailyGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveGoalLocked()
}

func (s *Service) effectiveGoalLocked() domain.DailyGoal {
	if s.override != nil {
		return *s.override
	}
	return domain.CalculateTargets(s.profile)
}

// Commit persists the profile and the effective goal. The persisted
// profile's IsManual flag is the OR of the toggle and override presence:
// an override implies manual going forward even if the toggle was off.
func (s *Service) Commit(ctx context.Context) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	s.mu.Lock()
	s.profile.IsManual = s.manual || s.override != nil
	s.manual = s.profile.IsManual
	profile := s.profile
	goal := s.effectiveGoalLocked()
	s.firstRun = false
	s.mu.Unlock()

	if err := profile.Validate(); err != nil {
		return fmt.Errorf("goals.Commit: %w", err)
	}

	if err := s.store.SaveProfile(ctx, userID, profile); err != nil {
		return fmt.Errorf("goals.Commit: save profile: %w", err)
	}
	if err := s.store.SaveGoal(ctx, userID, goal); err != nil {
		return fmt.Errorf("goals.Commit: save goal: %w", err)
	}

	s.log.InfoContext(ctx, "goals committed",
		slog.Bool("manual", profile.IsManual),
		slog.Float64("calories", goal.Calories),
	)

	return nil
}
