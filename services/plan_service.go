package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"healthdash/models"
	"healthdash/storage"
	"healthdash/utils"
)

type PlanStatus string

const (
	PlanIdle      PlanStatus = "idle"
	PlanPending   PlanStatus = "pending"
	PlanFulfilled PlanStatus = "fulfilled"
	PlanRejected  PlanStatus = "rejected"
)

// Plan flow names, also used as metric labels and route kinds.
const (
	FlowDiet    = "diet"
	FlowWorkout = "workout"
)

// PlanState is the observable state of one plan flow.
type PlanState[T any] struct {
	Status      PlanStatus `json:"status"`
	Loading     bool       `json:"loading"`
	Error       string     `json:"error,omitempty"`
	Plan        *T         `json:"plan"`
	GeneratedOn string     `json:"generatedOn,omitempty"`
}

// PlanFlowConfig describes one kind of generated plan.
type PlanFlowConfig[T any] struct {
	Name     string
	PlanKey  string
	DateKey  string
	Prompt   func(models.UserProfile) string
	Validate func(*T) error
}

// PlanFlow requests a structured plan from the AI service and caches it for the
// day. At most one request per flow is in flight.
type PlanFlow[T any] struct {
	cfg     PlanFlowConfig[T]
	adapter storage.Adapter
	gen     TextGenerator
	bus     *EventBus
	log     *zap.Logger

	mu       sync.Mutex
	state    PlanState[T]
	inFlight bool
	closed   bool
	wg       sync.WaitGroup
}

func NewPlanFlow[T any](cfg PlanFlowConfig[T], adapter storage.Adapter, gen TextGenerator, bus *EventBus, log *zap.Logger) *PlanFlow[T] {
	return &PlanFlow[T]{
		cfg:     cfg,
		adapter: adapter,
		gen:     Instrument(cfg.Name, gen),
		bus:     bus,
		log:     log.With(zap.String("flow", cfg.Name)),
		state:   PlanState[T]{Status: PlanIdle},
	}
}

// Load restores the cached plan and its generation date. A plan without a
// date, or one that fails validation, is ignored.
func (f *PlanFlow[T]) Load(ctx context.Context) error {
	var plan T
	status, err := storage.Load(ctx, f.adapter, f.cfg.PlanKey, &plan)
	if err != nil {
		return fmt.Errorf("load %s plan: %w", f.cfg.Name, err)
	}
	date, dateStatus, err := storage.LoadString(ctx, f.adapter, f.cfg.DateKey)
	if err != nil {
		return fmt.Errorf("load %s plan date: %w", f.cfg.Name, err)
	}

	state := PlanState[T]{Status: PlanIdle}
	switch {
	case status == storage.StatusMissing:
	case !status.Usable():
		f.log.Warn("ignoring unreadable cached plan", zap.Stringer("status", status))
	case f.cfg.Validate(&plan) != nil:
		f.log.Warn("ignoring cached plan with invalid shape")
	case !dateStatus.Usable() || !utils.IsDateKey(date):
		f.log.Warn("ignoring cached plan without a generation date", zap.String("date", date))
	default:
		state.Plan = &plan
		state.GeneratedOn = date
	}

	f.mu.Lock()
	f.state = state
	f.mu.Unlock()
	return nil
}

// State returns the current flow state.
func (f *PlanFlow[T]) State() PlanState[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// NeedsRefresh reports whether a fetch should be issued for today.
func (f *PlanFlow[T]) NeedsRefresh(today string, hasProfile bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return hasProfile && !f.inFlight && (f.state.Plan == nil || f.state.GeneratedOn != today)
}

// Fetch generates today's plan unless a fresh one is cached. It returns
// ErrPlanPending without calling the service when a request is in flight.
func (f *PlanFlow[T]) Fetch(ctx context.Context, profile *models.UserProfile, today string) error {
	started, err := f.begin(profile, today, false)
	if err != nil || !started {
		return err
	}
	return f.run(ctx, *profile, today)
}

// Regenerate requests a new plan even when today's plan is cached.
func (f *PlanFlow[T]) Regenerate(ctx context.Context, profile *models.UserProfile, today string) error {
	started, err := f.begin(profile, today, true)
	if err != nil || !started {
		return err
	}
	return f.run(ctx, *profile, today)
}

// FetchAsync starts Fetch in the background. It reports false when no request
// was started because one is in flight, the plan is fresh or there is no profile.
func (f *PlanFlow[T]) FetchAsync(ctx context.Context, profile *models.UserProfile, today string) bool {
	started, err := f.begin(profile, today, false)
	if err != nil || !started {
		return false
	}
	p := *profile
	go func() {
		if err := f.run(ctx, p, today); err != nil {
			f.log.Warn("background plan request failed", zap.Error(err))
		}
	}()
	return true
}

// Wait blocks until running requests finish.
func (f *PlanFlow[T]) Wait() { f.wg.Wait() }

// Close refuses new requests with ErrFlowClosed and waits for running ones.
func (f *PlanFlow[T]) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.wg.Wait()
}

// Clear drops the cached plan and date.
func (f *PlanFlow[T]) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.adapter.Delete(ctx, f.cfg.PlanKey); err != nil {
		return fmt.Errorf("clear %s plan: %w", f.cfg.Name, err)
	}
	if err := f.adapter.Delete(ctx, f.cfg.DateKey); err != nil {
		return fmt.Errorf("clear %s plan date: %w", f.cfg.Name, err)
	}
	f.state.Plan = nil
	f.state.GeneratedOn = ""
	f.state.Error = ""
	if !f.inFlight {
		f.state.Status = PlanIdle
	}
	return nil
}

// begin claims the in-flight slot. started is false when the cached plan is
// already fresh and force is unset.
func (f *PlanFlow[T]) begin(profile *models.UserProfile, today string, force bool) (started bool, err error) {
	if profile == nil {
		return false, ErrNoProfile
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false, ErrFlowClosed
	}
	if f.inFlight {
		planFetchSuppressedTotal.WithLabelValues(f.cfg.Name).Inc()
		return false, ErrPlanPending
	}
	if !force && f.state.Plan != nil && f.state.GeneratedOn == today {
		return false, nil
	}
	f.inFlight = true
	f.wg.Add(1)
	f.state.Status = PlanPending
	f.state.Loading = true
	f.state.Error = ""
	return true, nil
}

// run finishes a request claimed by begin.
func (f *PlanFlow[T]) run(ctx context.Context, profile models.UserProfile, today string) error {
	defer f.wg.Done()
	plan, err := f.request(ctx, profile)
	if err == nil {
		err = f.persist(ctx, plan, today)
	}

	f.mu.Lock()
	f.inFlight = false
	f.state.Loading = false
	if err != nil {
		f.state.Status = PlanRejected
		f.state.Error = err.Error()
	} else {
		f.state.Status = PlanFulfilled
		f.state.Plan = &plan
		f.state.GeneratedOn = today
	}
	f.mu.Unlock()

	if err != nil {
		f.log.Warn("plan request rejected", zap.Error(err))
		return err
	}
	f.log.Info("plan generated", zap.String("date", today))
	f.bus.Publish(models.Event{Kind: models.EventPlanUpdated, Date: today, Detail: f.cfg.Name})
	return nil
}

func (f *PlanFlow[T]) request(ctx context.Context, profile models.UserProfile) (T, error) {
	var plan T
	raw, err := f.gen.Generate(ctx, f.cfg.Prompt(profile))
	if err != nil {
		return plan, fmt.Errorf("generate %s plan: %w", f.cfg.Name, err)
	}
	plan, err = decodePlan[T](raw)
	if err != nil {
		return plan, fmt.Errorf("parse %s plan: %w", f.cfg.Name, err)
	}
	if err := f.cfg.Validate(&plan); err != nil {
		return plan, fmt.Errorf("invalid %s plan: %w", f.cfg.Name, err)
	}
	return plan, nil
}

func (f *PlanFlow[T]) persist(ctx context.Context, plan T, today string) error {
	if err := storage.Save(ctx, f.adapter, f.cfg.PlanKey, plan); err != nil {
		return fmt.Errorf("save %s plan: %w", f.cfg.Name, err)
	}
	if err := storage.Save(ctx, f.adapter, f.cfg.DateKey, today); err != nil {
		return fmt.Errorf("save %s plan date: %w", f.cfg.Name, err)
	}
	return nil
}

var errEmptyReply = errors.New("empty response from AI service")

// decodePlan reads exactly one JSON object from a model reply, ignoring a
// markdown code fence and any prose around the object.
func decodePlan[T any](raw string) (T, error) {
	var plan T
	body := utils.ExtractJSONObject(raw)
	if body == "" {
		return plan, errEmptyReply
	}
	if !strings.HasPrefix(body, "{") {
		return plan, errors.New("reply is not a JSON object")
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	if err := dec.Decode(&plan); err != nil {
		return plan, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return plan, errors.New("unexpected data after JSON object")
	}
	return plan, nil
}

// ---------- diet & workout ----------

func NewDietPlanFlow(adapter storage.Adapter, gen TextGenerator, bus *EventBus, log *zap.Logger, activityLevel string) *PlanFlow[models.DietPlan] {
	return NewPlanFlow(PlanFlowConfig[models.DietPlan]{
		Name:     FlowDiet,
		PlanKey:  storage.KeyDietPlan,
		DateKey:  storage.KeyDietPlanDate,
		Prompt:   func(p models.UserProfile) string { return DietPlanPrompt(p, activityLevel) },
		Validate: validateDietPlan,
	}, adapter, gen, bus, log)
}

func NewWorkoutPlanFlow(adapter storage.Adapter, gen TextGenerator, bus *EventBus, log *zap.Logger, activityLevel string) *PlanFlow[models.WorkoutPlan] {
	return NewPlanFlow(PlanFlowConfig[models.WorkoutPlan]{
		Name:     FlowWorkout,
		PlanKey:  storage.KeyWorkoutPlan,
		DateKey:  storage.KeyWorkoutPlanDate,
		Prompt:   func(p models.UserProfile) string { return WorkoutPlanPrompt(p, activityLevel) },
		Validate: validateWorkoutPlan,
	}, adapter, gen, bus, log)
}

func profileLines(p models.UserProfile, activityLevel string) string {
	if activityLevel == "" {
		activityLevel = "Moderate"
	}
	return fmt.Sprintf("- Age: %d\n- Gender: %s\n- Height: %gcm\n- Weight: %gkg\n- Activity Level: %s\n- Goal: %s\n",
		p.Age, orNotSet(p.Gender), p.Height, p.Weight, activityLevel, p.Goal.Label())
}

func DietPlanPrompt(p models.UserProfile, activityLevel string) string {
	var b strings.Builder
	b.WriteString("You are a nutrition expert. Create a one-day diet plan for this user:\n")
	b.WriteString(profileLines(p, activityLevel))
	b.WriteString(`
Return ONLY a JSON object, with no markdown and no extra text, in exactly this shape:
{
  "breakfast": [{"name": "string", "calories": number}],
  "lunch": [{"name": "string", "calories": number}],
  "snack": [{"name": "string", "calories": number}],
  "dinner": [{"name": "string", "calories": number}],
  "explanation": "string",
  "totalCalories": number
}
Include 2 to 4 items in each meal.`)
	return b.String()
}

func WorkoutPlanPrompt(p models.UserProfile, activityLevel string) string {
	var b strings.Builder
	b.WriteString("You are a fitness coach. Create a one-day workout plan for this user:\n")
	b.WriteString(profileLines(p, activityLevel))
	b.WriteString(`
Return ONLY a JSON object, with no markdown and no extra text, in exactly this shape:
{
  "walking": [{"name": "string", "duration": number, "details": "string"}],
  "running": [{"name": "string", "duration": number, "details": "string"}],
  "gym": [{"name": "string", "duration": number, "details": "string"}],
  "explanation": "string",
  "totalDuration": number
}
Durations are in minutes. Include 2 to 4 items in each category.`)
	return b.String()
}

func validateDietPlan(p *models.DietPlan) error {
	total := 0.0
	for _, meal := range models.MealTypes {
		items := dietPlanBucket(p, meal)
		if items == nil {
			return fmt.Errorf("missing %s", meal)
		}
		for _, it := range items {
			if strings.TrimSpace(it.Name) == "" {
				return fmt.Errorf("%s item without a name", meal)
			}
			if it.Calories < 0 {
				return fmt.Errorf("%s item %q has negative calories", meal, it.Name)
			}
			total += it.Calories
		}
	}
	if p.TotalCalories <= 0 {
		p.TotalCalories = total
	}
	return nil
}

func dietPlanBucket(p *models.DietPlan, meal models.MealType) []models.PlanMeal {
	switch meal {
	case models.MealBreakfast:
		return p.Breakfast
	case models.MealLunch:
		return p.Lunch
	case models.MealSnack:
		return p.Snack
	case models.MealDinner:
		return p.Dinner
	}
	return nil
}

func validateWorkoutPlan(p *models.WorkoutPlan) error {
	total := 0
	for _, f := range models.WorkoutFields {
		items := p.Exercises(f)
		if items == nil {
			return fmt.Errorf("missing %s", f)
		}
		for _, ex := range items {
			if strings.TrimSpace(ex.Name) == "" {
				return fmt.Errorf("%s exercise without a name", f)
			}
			if ex.Duration < 0 {
				return fmt.Errorf("%s exercise %q has negative duration", f, ex.Name)
			}
			total += ex.Duration
		}
	}
	if p.TotalDuration <= 0 {
		p.TotalDuration = total
	}
	return nil
}
