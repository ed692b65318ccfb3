// Package storage is the key/value persistence layer behind the domain stores.
// Every backend stores whole JSON blobs keyed by a logical name and overwrites
// them on write.
package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"healthdash/config"
)

// ErrNotFound is returned by Read when the key has never been written or was deleted.
var ErrNotFound = errors.New("storage: key not found")

// Logical keys. They match what the browser build wrote to localStorage so an
// exported localStorage dump can be imported as-is.
const (
	KeyProfile         = "user"
	KeyHabits          = "dailyHabits"
	KeyDietHistory     = "dietHistory"
	KeyWorkoutHistory  = "workoutHistory"
	KeyDietPlan        = "structuredDietPlan"
	KeyDietPlanDate    = "dietPlanDate"
	KeyWorkoutPlan     = "structuredWorkoutPlan"
	KeyWorkoutPlanDate = "workoutPlanDate"
)

// Adapter is the persistence contract consumed by the stores.
type Adapter interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Closer is implemented by adapters holding connections.
type Closer interface {
	Close() error
}

// Open builds the adapter selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (Adapter, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverSQLite, config.DriverPostgres:
		return OpenGorm(cfg, log)
	case config.DriverS3:
		return OpenS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// Close releases adapter resources when the backend has any.
func Close(a Adapter) error {
	if c, ok := a.(Closer); ok {
		return c.Close()
	}
	return nil
}
