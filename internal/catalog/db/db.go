// Package db implements the persistence gateway of the catalog on top of GORM.
// It owns the lifecycle of every Company and Product row and translates
// store errors into the shared error taxonomy.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	rows "github.com/gartstein/catalog/internal/catalog/db/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the sqlite database file, or ":memory:".
	Path string
	// ConnectTimeout bounds the connection retries performed by NewRepository.
	ConnectTimeout time.Duration
	// SlowQuery is the threshold above which queries are logged as warnings.
	SlowQuery time.Duration
}

// Dialector returns the GORM dialector for the configured driver.
func (c *Config) Dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(sqliteDSN(c.Path)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// sqliteDSN enables foreign key enforcement, which sqlite leaves off by default.
func sqliteDSN(path string) string {
	if path == "" || path == ":memory:" {
		return "file::memory:?_foreign_keys=on"
	}
	return "file:" + path + "?_foreign_keys=on"
}

// NewRepository connects to the configured store, retrying with exponential
// backoff until cfg.ConnectTimeout elapses, and migrates the catalog tables.
func NewRepository(ctx context.Context, cfg *Config, logger *zap.Logger) (*Repository, error) {
	dialector, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}

	policy := backoff.NewExponentialBackOff()
	if cfg.ConnectTimeout > 0 {
		policy.MaxElapsedTime = cfg.ConnectTimeout
	}

	var db *gorm.DB
	connect := func() error {
		db, err = gorm.Open(dialector, &gorm.Config{
			Logger:         NewLogger(logger, cfg.SlowQuery),
			TranslateError: true,
		})
		if err != nil {
			logger.Warn("database not ready, retrying", zap.Error(err))
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			logger.Warn("database ping failed, retrying", zap.Error(err))
			return err
		}
		return nil
	}
	if err := backoff.Retry(connect, backoff.WithContext(policy, ctx)); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// every pooled connection to :memory: would otherwise see its own database
		sqlDB, _ := db.DB()
		sqlDB.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// Migrate creates or updates the catalog tables.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&rows.Company{}, &rows.Product{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
