// Package session implements the request/state gate in front of the
// inference provider. It owns the Idle/ParsingFood/GeneratingPlan/Error
// state machine, rejects concurrent provider calls, auto-reverts from the
// error state, and keeps the active meal plan consistent with the ledger.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/nutriplan-backend/internal/config"
	"github.com/heartmarshall/nutriplan-backend/internal/domain"
	"github.com/heartmarshall/nutriplan-backend/internal/provider"
	"github.com/heartmarshall/nutriplan-backend/pkg/ctxutil"
)

// User-facing failure messages. Kept generic on purpose; the underlying
// cause goes to the log, not the user.
const (
	msgParseFailed = "Could not process food log. Try being more specific."
	msgImageFailed = "Could not analyze image. Please try again."
	msgPlanFailed  = "Failed to generate plan. Please check your connection."
)

// FoodRecognizer turns free-form input into structured food results.
type FoodRecognizer interface {
	ParseFoodText(ctx context.Context, description string) ([]provider.FoodResult, error)
	AnalyzeFoodImage(ctx context.Context, image []byte, mimeType string) ([]provider.FoodResult, error)
}

// PlanGenerator produces a raw meal plan for a structured request.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, req provider.PlanRequest) (*provider.PlanResult, error)
}

// goalSource provides the effective daily goal.
type goalSource interface {
	EffectiveGoal() domain.DailyGoal
}

// dayStore persists the day's food log and the active meal plan. The plan
// must survive process exits: a one-shot CLI run generates it and a later
// run quick-logs from it.
type dayStore interface {
	SaveFoodLog(ctx context.Context, userID uuid.UUID, day string, items []domain.FoodItem) error
	LoadFoodLog(ctx context.Context, userID uuid.UUID, day string) ([]domain.FoodItem, error)
	SavePlan(ctx context.Context, userID uuid.UUID, day string, meals []domain.MealSuggestion) error
	LoadPlan(ctx context.Context, userID uuid.UUID, day string) ([]domain.MealSuggestion, error)
}

// Service is the session state machine. Provider-backed operations are
// serialized: while one is in flight the state is non-idle and further
// provider calls fail fast with ErrBusy. Local operations (delete, reset,
// quick-log) are always allowed.
type Service struct {
	log        *slog.Logger
	recognizer FoodRecognizer
	generator  PlanGenerator
	goals      goalSource
	ledger     ledgerService
	builder    planBuilder
	store      dayStore

	clock         clockwork.Clock
	revertDelay   time.Duration
	maxImageBytes int

	mu        sync.Mutex
	state     domain.SessionState
	errMsg    string
	revertSeq uint64
	plan      []domain.MealSuggestion
}

// ledgerService is the slice of the ledger the session needs.
type ledgerService interface {
	Bootstrap(items []domain.FoodItem)
	Append(items ...domain.FoodItem)
	Delete(id uuid.UUID) bool
	Reset()
	Items() []domain.FoodItem
	Remaining(goal domain.DailyGoal) domain.Macros
}

type planBuilder interface {
	BuildRequest(remaining domain.Macros, now time.Time, tweak string, mealCount int) provider.PlanRequest
	NormalizePlan(res *provider.PlanResult) ([]domain.MealSuggestion, error)
	CheckTolerances(req provider.PlanRequest, meals []domain.MealSuggestion)
}

// NewService wires the session state machine. The clock is injected so the
// error auto-revert can be driven deterministically in tests.
func NewService(
	logger *slog.Logger,
	recognizer FoodRecognizer,
	generator PlanGenerator,
	goals goalSource,
	ledger ledgerService,
	builder planBuilder,
	store dayStore,
	clock clockwork.Clock,
	cfg config.SessionConfig,
) *Service {
	return &Service{
		log:           logger.With("service", "session"),
		recognizer:    recognizer,
		generator:     generator,
		goals:         goals,
		ledger:        ledger,
		builder:       builder,
		store:         store,
		clock:         clock,
		revertDelay:   cfg.ErrorRevertDelay,
		maxImageBytes: cfg.MaxImageBytes,
		state:         domain.StateIdle,
	}
}

// Bootstrap restores today's food log and active plan from persistence.
// An absent log or plan is a normal empty day.
func (s *Service) Bootstrap(ctx context.Context) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	day := domain.DayKey(s.clock.Now())

	items, err := s.store.LoadFoodLog(ctx, userID, day)
	if err != nil {
		return fmt.Errorf("session.Bootstrap: %w", err)
	}
	s.ledger.Bootstrap(items)

	meals, err := s.store.LoadPlan(ctx, userID, day)
	if err != nil {
		return fmt.Errorf("session.Bootstrap: %w", err)
	}
	s.mu.Lock()
	s.plan = meals
	s.mu.Unlock()

	s.log.InfoContext(ctx, "session bootstrapped",
		slog.Int("items", len(items)),
		slog.Int("planned_meals", len(meals)),
	)
	return nil
}

// State returns the current machine state.
func (s *Service) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ErrorMessage returns the user-facing message of the current error state,
// or "" outside it.
func (s *Service) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Plan returns a copy of the active meal plan.
func (s *Service) Plan() []domain.MealSuggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.MealSuggestion(nil), s.plan...)
}

// LogFoodText parses a free-text food description and appends the
// recognized items to the ledger. Adding food invalidates the active plan.
func (s *Service) LogFoodText(ctx context.Context, description string) ([]domain.FoodItem, error) {
	if description == "" {
		return nil, domain.NewValidationError("description", "must not be empty")
	}

	if err := s.enter(domain.StateParsingFood); err != nil {
		return nil, err
	}

	results, err := s.recognizer.ParseFoodText(ctx, description)
	if err != nil {
		s.log.ErrorContext(ctx, "food text parsing failed", slog.Any("error", err))
		s.fail(msgParseFailed)
		return nil, fmt.Errorf("session.LogFoodText: %w", domain.ErrParseFailure)
	}

	return s.acceptFood(ctx, results, msgParseFailed)
}

// LogFoodImage analyzes a food photo and appends the recognized items to
// the ledger. Oversized payloads are rejected before any state change.
func (s *Service) LogFoodImage(ctx context.Context, image []byte, mimeType string) ([]domain.FoodItem, error) {
	if len(image) == 0 {
		return nil, domain.NewValidationError("image", "must not be empty")
	}
	if len(image) > s.maxImageBytes {
		return nil, domain.NewValidationError("image", fmt.Sprintf("exceeds %d byte limit", s.maxImageBytes))
	}

	if err := s.enter(domain.StateParsingFood); err != nil {
		return nil, err
	}

	results, err := s.recognizer.AnalyzeFoodImage(ctx, image, mimeType)
	if err != nil {
		s.log.ErrorContext(ctx, "food image analysis failed", slog.Any("error", err))
		s.fail(msgImageFailed)
		return nil, fmt.Errorf("session.LogFoodImage: %w", domain.ErrParseFailure)
	}

	return s.acceptFood(ctx, results, msgImageFailed)
}

// acceptFood validates recognition results, appends them to the ledger,
// clears the plan and persists the new log. Every field of a result is
// required; the macro values are pointers so a field the provider omitted
// is distinguishable from a legitimate zero.
func (s *Service) acceptFood(ctx context.Context, results []provider.FoodResult, failMsg string) ([]domain.FoodItem, error) {
	if len(results) == 0 {
		s.fail(failMsg)
		return nil, fmt.Errorf("no items recognized: %w", domain.ErrParseFailure)
	}

	now := s.clock.Now()
	items := make([]domain.FoodItem, 0, len(results))
	for i, r := range results {
		if r.Name == "" {
			s.fail(failMsg)
			return nil, fmt.Errorf("result %d has no name: %w", i, domain.ErrParseFailure)
		}
		if r.Calories == nil || r.Protein == nil || r.Carbs == nil || r.Fat == nil {
			s.fail(failMsg)
			return nil, fmt.Errorf("result %d (%s) is missing a macro field: %w", i, r.Name, domain.ErrParseFailure)
		}
		items = append(items, domain.NewFoodItem(r.Name, domain.Macros{
			Calories: *r.Calories,
			Protein:  *r.Protein,
			Carbs:    *r.Carbs,
			Fat:      *r.Fat,
		}, now))
	}

	s.ledger.Append(items...)

	s.mu.Lock()
	s.plan = nil
	s.state = domain.StateIdle
	s.errMsg = ""
	s.mu.Unlock()

	s.persistLog(ctx)
	s.persistPlan(ctx)

	s.log.InfoContext(ctx, "food logged", slog.Int("items", len(items)))
	return items, nil
}

// GeneratePlan builds a generation request from the remaining macros and
// replaces the active plan with the normalized response. On any failure
// the previous plan stays untouched.
func (s *Service) GeneratePlan(ctx context.Context, tweak string, mealCount int) ([]domain.MealSuggestion, error) {
	if err := s.enter(domain.StateGeneratingPlan); err != nil {
		return nil, err
	}

	remaining := s.ledger.Remaining(s.goals.EffectiveGoal())
	req := s.builder.BuildRequest(remaining, s.clock.Now(), tweak, mealCount)

	res, err := s.generator.GeneratePlan(ctx, req)
	if err != nil {
		s.log.ErrorContext(ctx, "plan generation failed", slog.Any("error", err))
		s.fail(msgPlanFailed)
		return nil, fmt.Errorf("session.GeneratePlan: %w", domain.ErrPlanGeneration)
	}

	meals, err := s.builder.NormalizePlan(res)
	if err != nil {
		s.log.ErrorContext(ctx, "plan normalization failed", slog.Any("error", err))
		s.fail(msgPlanFailed)
		return nil, fmt.Errorf("session.GeneratePlan: %w", err)
	}

	s.builder.CheckTolerances(req, meals)

	s.mu.Lock()
	s.plan = meals
	s.state = domain.StateIdle
	s.errMsg = ""
	s.mu.Unlock()

	s.persistPlan(ctx)

	s.log.InfoContext(ctx, "plan generated", slog.Int("meals", len(meals)))
	return s.Plan(), nil
}

// QuickLog logs a suggested meal from the active plan as eaten. The
// suggestion's totals become a regular food item, and the plan is cleared
// since the remaining macros it targeted no longer hold.
func (s *Service) QuickLog(ctx context.Context, mealID uuid.UUID) (domain.FoodItem, error) {
	s.mu.Lock()
	var found *domain.MealSuggestion
	for i := range s.plan {
		if s.plan[i].ID == mealID {
			found = &s.plan[i]
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return domain.FoodItem{}, fmt.Errorf("meal %s not in plan: %w", mealID, domain.ErrNotFound)
	}

	item := domain.NewFoodItem(found.Name, found.Macros, s.clock.Now())
	s.plan = nil
	s.mu.Unlock()

	s.ledger.Append(item)
	s.persistLog(ctx)
	s.persistPlan(ctx)

	s.log.InfoContext(ctx, "meal quick-logged", slog.String("name", item.Name))
	return item, nil
}

// DeleteFood removes one logged item and invalidates the plan.
func (s *Service) DeleteFood(ctx context.Context, id uuid.UUID) error {
	if !s.ledger.Delete(id) {
		return fmt.Errorf("food item %s: %w", id, domain.ErrNotFound)
	}

	s.mu.Lock()
	s.plan = nil
	s.mu.Unlock()

	s.persistLog(ctx)
	s.persistPlan(ctx)
	return nil
}

// ResetDay clears the food log and the plan.
func (s *Service) ResetDay(ctx context.Context) error {
	s.ledger.Reset()

	s.mu.Lock()
	s.plan = nil
	s.mu.Unlock()

	s.persistLog(ctx)
	s.persistPlan(ctx)

	s.log.InfoContext(ctx, "day reset")
	return nil
}

// enter transitions Idle -> busy, or fails with ErrBusy. Entering a busy
// state bumps the revert sequence so a pending error revert cannot clobber
// the new in-flight state.
func (s *Service) enter(busy domain.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateIdle {
		return fmt.Errorf("state %s: %w", s.state, domain.ErrBusy)
	}
	s.state = busy
	s.errMsg = ""
	s.revertSeq++
	return nil
}

// fail moves the machine into the error state and schedules the revert to
// Idle. The sequence guard keeps a stale timer from reverting a state set
// by a later operation.
func (s *Service) fail(msg string) {
	s.mu.Lock()
	s.state = domain.StateError
	s.errMsg = msg
	s.revertSeq++
	seq := s.revertSeq
	s.mu.Unlock()

	s.clock.AfterFunc(s.revertDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.revertSeq == seq && s.state == domain.StateError {
			s.state = domain.StateIdle
			s.errMsg = ""
		}
	})
}

// persistLog writes the ledger's current contents for today. Persistence
// failures are logged but never surfaced; the in-memory log is the source
// of truth for the session.
func (s *Service) persistLog(ctx context.Context) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		s.log.WarnContext(ctx, "food log not persisted, no user in context")
		return
	}

	day := domain.DayKey(s.clock.Now())
	if err := s.store.SaveFoodLog(ctx, userID, day, s.ledger.Items()); err != nil {
		s.log.ErrorContext(ctx, "food log persistence failed",
			slog.String("day", day),
			slog.Any("error", err),
		)
	}
}

// persistPlan writes the active plan for today, including the cleared
// (empty) plan after a staleness invalidation, so a later process sees the
// same plan state this one does.
func (s *Service) persistPlan(ctx context.Context) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		s.log.WarnContext(ctx, "plan not persisted, no user in context")
		return
	}

	day := domain.DayKey(s.clock.Now())
	if err := s.store.SavePlan(ctx, userID, day, s.Plan()); err != nil {
		s.log.ErrorContext(ctx, "plan persistence failed",
			slog.String("day", day),
			slog.Any("error", err),
		)
	}
}
