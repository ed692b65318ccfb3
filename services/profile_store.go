package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"healthdash/models"
	"healthdash/storage"
	"healthdash/utils"
)

// ProfileStore holds the single user profile.
type ProfileStore struct {
	mu      sync.RWMutex
	adapter storage.Adapter
	log     *zap.Logger
	bus     *EventBus

	profile *models.UserProfile
	lastErr error
}

func NewProfileStore(adapter storage.Adapter, bus *EventBus, log *zap.Logger) *ProfileStore {
	return &ProfileStore{adapter: adapter, bus: bus, log: log}
}

func (s *ProfileStore) Load(ctx context.Context) error {
	var p models.UserProfile
	status, err := storage.Load(ctx, s.adapter, storage.KeyProfile, &p)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	var loaded *models.UserProfile
	switch {
	case status.Usable():
		p = sanitizeProfile(p)
		if !p.Goal.Valid() {
			s.log.Warn("stored profile has unknown goal, using maintainWeight", zap.String("goal", string(p.Goal)))
			p.Goal = models.GoalMaintainWeight
		}
		loaded = &p
	case status != storage.StatusMissing:
		s.log.Warn("ignoring unreadable persisted profile", zap.Stringer("status", status))
	}
	s.mu.Lock()
	s.profile = loaded
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the profile and whether one is set.
func (s *ProfileStore) Get() (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return models.UserProfile{}, false
	}
	return *s.profile, true
}

// Set replaces the profile. Negative measurements are clamped to zero, which
// derived values treat as unknown.
func (s *ProfileStore) Set(ctx context.Context, p models.UserProfile) error {
	if !p.Goal.Valid() {
		return ErrInvalidGoal
	}
	p = sanitizeProfile(p)
	return s.mutate(ctx, func() bool {
		s.profile = &p
		return true
	})
}

// Update merges patch onto the current profile. Without a profile it does
// nothing and reports false.
func (s *ProfileStore) Update(ctx context.Context, patch models.UserProfilePatch) (models.UserProfile, bool, error) {
	if patch.Goal != nil && !patch.Goal.Valid() {
		return models.UserProfile{}, false, ErrInvalidGoal
	}
	var out models.UserProfile
	updated := false
	err := s.mutate(ctx, func() bool {
		if s.profile == nil {
			return false
		}
		next := sanitizeProfile(patch.Apply(*s.profile))
		s.profile = &next
		out, updated = next, true
		return true
	})
	return out, updated, err
}

func (s *ProfileStore) Clear(ctx context.Context) error {
	return s.mutate(ctx, func() bool {
		s.profile = nil
		return true
	})
}

func (s *ProfileStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *ProfileStore) mutate(ctx context.Context, fn func() bool) error {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return nil
	}
	var err error
	if s.profile == nil {
		err = s.adapter.Delete(ctx, storage.KeyProfile)
	} else {
		err = storage.Save(ctx, s.adapter, storage.KeyProfile, s.profile)
	}
	if err != nil {
		s.lastErr = fmt.Errorf("save profile: %w", err)
		err = s.lastErr
	} else {
		s.lastErr = nil
	}
	s.mu.Unlock()

	storeMutationsTotal.WithLabelValues("profile", outcomeLabel(err)).Inc()
	if err != nil {
		s.log.Error("persist failed", zap.String("store", "profile"), zap.Error(err))
		return err
	}
	s.bus.Publish(models.Event{Kind: models.EventProfileUpdated})
	return nil
}

func sanitizeProfile(p models.UserProfile) models.UserProfile {
	p.Name = strings.TrimSpace(p.Name)
	p.Age = utils.NonNegative(p.Age)
	p.Height = utils.ClampFloat(p.Height, 0, 300)
	p.Weight = utils.ClampFloat(p.Weight, 0, 700)
	return p
}
