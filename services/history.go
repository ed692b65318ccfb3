package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"healthdash/models"
	"healthdash/storage"
	"healthdash/utils"
)

// history is a date-keyed collection persisted as one blob. The habit, diet and
// workout stores are thin typed wrappers around it.
type history[T any] struct {
	mu      sync.RWMutex
	name    string
	key     string
	kind    string
	adapter storage.Adapter
	log     *zap.Logger
	bus     *EventBus

	entries map[string]T
	lastErr error

	// normalize clamps a loaded or written entry and stamps its date.
	normalize func(date string, v T) T
	clone     func(v T) T
}

func (h *history[T]) load(ctx context.Context) error {
	var raw map[string]T
	status, err := storage.Load(ctx, h.adapter, h.key, &raw)
	if err != nil {
		return fmt.Errorf("load %s: %w", h.name, err)
	}
	entries := make(map[string]T, len(raw))
	switch {
	case status.Usable():
		for date, v := range raw {
			if !utils.IsDateKey(date) {
				h.log.Warn("dropping entry with non-canonical date", zap.String("store", h.name), zap.String("date", date))
				continue
			}
			entries[date] = h.normalize(date, v)
		}
		if status == storage.StatusLegacy {
			h.log.Info("loaded legacy data, it will be upgraded on next write", zap.String("store", h.name))
		}
	case status != storage.StatusMissing:
		h.log.Warn("ignoring unreadable persisted data", zap.String("store", h.name), zap.Stringer("status", status))
	}

	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()
	return nil
}

func (h *history[T]) get(date string) (T, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.entries[date]
	if !ok {
		var zero T
		return zero, false
	}
	return h.clone(v), true
}

func (h *history[T]) all() map[string]T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]T, len(h.entries))
	for d, v := range h.entries {
		out[d] = h.clone(v)
	}
	return out
}

// rangeOf returns entries with from <= date <= to. Date keys sort as strings.
func (h *history[T]) rangeOf(from, to string) map[string]T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]T)
	for d, v := range h.entries {
		if d >= from && d <= to {
			out[d] = h.clone(v)
		}
	}
	return out
}

func (h *history[T]) dates() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.entries))
	for d := range h.entries {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// mutate applies fn under the write lock and persists the whole collection.
// fn returns false to signal that nothing changed; no write or event follows.
// The in-memory change is kept when the write fails.
func (h *history[T]) mutate(ctx context.Context, date string, fn func(entries map[string]T) bool) error {
	h.mu.Lock()
	if !fn(h.entries) {
		h.mu.Unlock()
		return nil
	}
	err := h.persistLocked(ctx)
	h.mu.Unlock()

	storeMutationsTotal.WithLabelValues(h.name, outcomeLabel(err)).Inc()
	if err != nil {
		h.log.Error("persist failed", zap.String("store", h.name), zap.Error(err))
		return err
	}
	h.bus.Publish(models.Event{Kind: h.kind, Date: date})
	return nil
}

func (h *history[T]) persistLocked(ctx context.Context) error {
	var err error
	if len(h.entries) == 0 {
		err = h.adapter.Delete(ctx, h.key)
	} else {
		err = storage.Save(ctx, h.adapter, h.key, h.entries)
	}
	if err != nil {
		h.lastErr = fmt.Errorf("save %s: %w", h.name, err)
		return h.lastErr
	}
	h.lastErr = nil
	return nil
}

func (h *history[T]) clear(ctx context.Context) error {
	return h.mutate(ctx, "", func(entries map[string]T) bool {
		for d := range entries {
			delete(entries, d)
		}
		return true
	})
}

func (h *history[T]) err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastErr
}
