package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"healthdash/config"
	"healthdash/models"
	"healthdash/storage"
)

type AppOptions struct {
	Config config.Config
	// Adapter overrides the configured storage backend. The caller keeps
	// ownership and closes it.
	Adapter storage.Adapter
	// Generator overrides the configured AI provider.
	Generator TextGenerator
	// Clock defaults to time.Now.
	Clock  func() time.Time
	Logger *zap.Logger
}

// App owns every store and flow for the single local user.
type App struct {
	Profile  *ProfileStore
	Habits   *HabitStore
	Diet     *DietStore
	Workouts *WorkoutStore

	DietPlans    *PlanFlow[models.DietPlan]
	WorkoutPlans *PlanFlow[models.WorkoutPlan]
	Coach        *CoachService

	Bus *EventBus
	Hub *RealtimeHub

	cfg         config.Config
	adapter     storage.Adapter
	ownsAdapter bool
	log         *zap.Logger
	clock       func() time.Time
	loc         *time.Location
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewApp opens storage, loads all persisted state and wires change events to
// the realtime hub.
func NewApp(ctx context.Context, opts AppOptions) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	cfg := opts.Config
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve timezone: %w", err)
	}

	adapter, owns := opts.Adapter, false
	if adapter == nil {
		adapter, err = storage.Open(ctx, cfg.StorageConfig, log)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		owns = true
	}

	gen := opts.Generator
	if gen == nil {
		gen, err = NewTextGenerator(ctx, cfg.AIConfig, log)
		if err != nil {
			if owns {
				_ = storage.Close(adapter)
			}
			return nil, err
		}
	}

	bus := NewEventBus()
	hub := NewRealtimeHub(log)
	bus.Subscribe(hub.Broadcast)

	rootCtx, cancel := context.WithCancel(context.Background())
	a := &App{
		Profile:      NewProfileStore(adapter, bus, log),
		Habits:       NewHabitStore(adapter, bus, log),
		Diet:         NewDietStore(adapter, bus, log),
		Workouts:     NewWorkoutStore(adapter, bus, log),
		DietPlans:    NewDietPlanFlow(adapter, gen, bus, log, cfg.ActivityLevel),
		WorkoutPlans: NewWorkoutPlanFlow(adapter, gen, bus, log, cfg.ActivityLevel),
		Coach:        NewCoachService(gen, log),
		Bus:          bus,
		Hub:          hub,
		cfg:          cfg,
		adapter:      adapter,
		ownsAdapter:  owns,
		log:          log,
		clock:        clock,
		loc:          loc,
		ctx:          rootCtx,
		cancel:       cancel,
	}

	loaders := []func(context.Context) error{
		a.Profile.Load, a.Habits.Load, a.Diet.Load, a.Workouts.Load,
		a.DietPlans.Load, a.WorkoutPlans.Load,
	}
	for _, load := range loaders {
		if err := load(ctx); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	log.Info("state loaded", zap.String("driver", cfg.Driver), zap.String("today", a.Today()))
	return a, nil
}

// Today is the current date key in the configured time zone.
func (a *App) Today() string { return TodayIn(a.clock(), a.loc) }

// Snapshot copies every store.
func (a *App) Snapshot() Snapshot {
	snap := Snapshot{
		Habits:   a.Habits.All(),
		Diet:     a.Diet.All(),
		Workouts: a.Workouts.All(),
	}
	if p, ok := a.Profile.Get(); ok {
		snap.Profile = &p
	}
	return snap
}

func (a *App) Dashboard() models.Dashboard { return BuildDashboard(a.Snapshot(), a.Today()) }

func (a *App) CoachContext() string { return BuildCoachContext(a.Snapshot(), a.Today()) }

// Advise answers message using today's context.
func (a *App) Advise(ctx context.Context, message string) string {
	return a.Coach.Advise(ctx, a.CoachContext(), message)
}

// StoreErrors lists the last persistence failure of each store that has one.
func (a *App) StoreErrors() map[string]string {
	out := map[string]string{}
	for name, err := range map[string]error{
		"profile": a.Profile.Err(),
		"habits":  a.Habits.Err(),
		"diet":    a.Diet.Err(),
		"workout": a.Workouts.Err(),
	} {
		if err != nil {
			out[name] = err.Error()
		}
	}
	return out
}

// RefreshPlans fetches every stale plan concurrently and waits for them.
// Flows already in flight are skipped.
func (a *App) RefreshPlans(ctx context.Context) error {
	profile, ok := a.Profile.Get()
	if !ok {
		return nil
	}
	today := a.Today()

	g, gctx := errgroup.WithContext(ctx)
	if a.DietPlans.NeedsRefresh(today, true) {
		g.Go(func() error { return ignorePending(a.DietPlans.Fetch(gctx, &profile, today)) })
	}
	if a.WorkoutPlans.NeedsRefresh(today, true) {
		g.Go(func() error { return ignorePending(a.WorkoutPlans.Fetch(gctx, &profile, today)) })
	}
	return g.Wait()
}

// RefreshPlansAsync starts background fetches for stale plans, bound to the
// App lifetime.
func (a *App) RefreshPlansAsync() {
	profile, ok := a.Profile.Get()
	if !ok {
		return
	}
	today := a.Today()
	a.DietPlans.FetchAsync(a.ctx, &profile, today)
	a.WorkoutPlans.FetchAsync(a.ctx, &profile, today)
}

// Context is cancelled by Close.
func (a *App) Context() context.Context { return a.ctx }

// Close cancels background requests, disconnects realtime clients and
// releases storage it opened.
func (a *App) Close() error {
	a.cancel()
	a.DietPlans.Close()
	a.WorkoutPlans.Close()
	a.Hub.Close()
	if a.ownsAdapter {
		return storage.Close(a.adapter)
	}
	return nil
}

func ignorePending(err error) error {
	if errors.Is(err, ErrPlanPending) {
		return nil
	}
	return err
}
