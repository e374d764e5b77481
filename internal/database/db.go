package database

import (
	"fmt"
	"time"

	"cafe-pos/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 5

// Options describes which database to open.
type Options struct {
	Driver   string // sqlite, mysql or postgres
	DSN      string
	LogLevel logger.LogLevel
	// RetryDelay between connection attempts. Zero means 2s.
	RetryDelay time.Duration
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// Connect opens the store, waiting for it to come up, then syncs the schema and seeds an empty database.
func Connect(opts Options, log zerolog.Logger) (*gorm.DB, error) {
	dial, err := dialector(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = 2 * time.Second
	}

	var db *gorm.DB
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(dial, &gorm.Config{
			Logger:  logger.Default.LogMode(opts.LogLevel),
			NowFunc: func() time.Time { return time.Now().UTC() },
			// duplicate keys surface as gorm.ErrDuplicatedKey on every driver
			TranslateError: true,
		})
		if err == nil {
			break
		}
		log.Warn().Err(err).Msgf("failed to connect to database, retrying in %s (%d/%d)", opts.RetryDelay, i+1, connectAttempts)
		time.Sleep(opts.RetryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("connect after %d attempts: %w", connectAttempts, err)
	}
	log.Info().Str("driver", opts.Driver).Msg("connected to database")

	if opts.Driver == "sqlite" {
		// sqlite has a single writer; one connection avoids "database is locked"
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info().Msg("database schema synced")

	if err := Seed(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.StockItem{},
		&models.Expense{},
		&models.OrderStatus{},
		&models.Order{},
		&models.OrderItem{},
		&models.Setting{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
