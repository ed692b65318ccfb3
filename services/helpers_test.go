package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"healthdash/models"
	"healthdash/storage"
)

var errDiskFull = errors.New("disk full")

// flakyAdapter wraps Memory and fails writes while failWrites is set.
type flakyAdapter struct {
	*storage.Memory
	failWrites atomic.Bool
	writes     atomic.Int32
}

func newFlakyAdapter() *flakyAdapter { return &flakyAdapter{Memory: storage.NewMemory()} }

func (f *flakyAdapter) Write(ctx context.Context, key string, value []byte) error {
	f.writes.Add(1)
	if f.failWrites.Load() {
		return errDiskFull
	}
	return f.Memory.Write(ctx, key, value)
}

func (f *flakyAdapter) Delete(ctx context.Context, key string) error {
	if f.failWrites.Load() {
		return errDiskFull
	}
	return f.Memory.Delete(ctx, key)
}

// fakeGenerator returns canned replies and counts calls. When gate is set,
// each call blocks until the gate is closed or ctx ends.
type fakeGenerator struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   atomic.Int32
	prompts []string
	gate    chan struct{}
	started chan struct{}
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	n := int(g.calls.Add(1))
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.gate != nil {
		select {
		case <-g.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if g.err != nil {
		return "", g.err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.replies) == 0 {
		return "", nil
	}
	if n > len(g.replies) {
		n = len(g.replies)
	}
	return g.replies[n-1], nil
}

func (g *fakeGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

// eventRecorder collects published events.
type eventRecorder struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *eventRecorder) record(e models.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *eventRecorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func fixedClock(date string) func() time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" 10:00", time.UTC)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

const validDietJSON = `{
  "breakfast": [{"name": "Oatmeal", "calories": 300}],
  "lunch": [{"name": "Chicken salad", "calories": 450}],
  "snack": [{"name": "Apple", "calories": 95}],
  "dinner": [{"name": "Salmon", "calories": 520}],
  "explanation": "Balanced",
  "totalCalories": 1365
}`

const validWorkoutJSON = `{
  "walking": [{"name": "Brisk walk", "duration": 20}],
  "running": [{"name": "Intervals", "duration": 15, "details": "6x1min"}],
  "gym": [{"name": "Squats", "duration": 10}, {"name": "Rows", "duration": 10}],
  "explanation": "Mixed"
}`
