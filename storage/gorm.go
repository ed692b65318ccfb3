package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"healthdash/config"
	"healthdash/models"
)

// Gorm stores blobs as rows of the kv_records table.
type Gorm struct {
	db *gorm.DB
}

// OpenGorm connects to SQLite or Postgres and migrates the kv table.
func OpenGorm(cfg config.StorageConfig, log *zap.Logger) (*Gorm, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	case config.DriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("postgres driver requires POSTGRES_DSN")
		}
		dialector = postgres.Open(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("gorm: unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewGorm(db, log)
}

// NewGorm wraps an existing connection.
func NewGorm(db *gorm.DB, log *zap.Logger) (*Gorm, error) {
	if err := db.AutoMigrate(&models.KVRecord{}); err != nil {
		return nil, fmt.Errorf("automigrate kv_records: %w", err)
	}
	log.Debug("kv store ready", zap.String("dialect", db.Dialector.Name()))
	return &Gorm{db: db}, nil
}

func (g *Gorm) Read(ctx context.Context, key string) ([]byte, error) {
	var rec models.KVRecord
	err := g.db.WithContext(ctx).Where("name = ?", key).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return rec.Value, nil
}

func (g *Gorm) Write(ctx context.Context, key string, value []byte) error {
	rec := models.KVRecord{Name: key}
	// Upsert by name
	err := g.db.WithContext(ctx).
		Where("name = ?", key).
		Assign(models.KVRecord{Value: value}).
		FirstOrCreate(&rec).Error
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (g *Gorm) Delete(ctx context.Context, key string) error {
	if err := g.db.WithContext(ctx).Where("name = ?", key).Delete(&models.KVRecord{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
