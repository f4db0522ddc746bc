package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campus-food-backend/config"
	"campus-food-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.EnableSearchIndexes {
		log.Println("Search indexes are enabled, applying Postgres-specific DDL...")
		if err := applyPostgresDDL(db); err != nil {
			log.Printf("Warning: failed to apply some Postgres DDL: %v. Continuing without them.", err)
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Event{},
		&model.Food{},
		&model.Profile{},
		&model.PushSubscription{},
		&model.NotificationPreference{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

func applyPostgresDDL(db *gorm.DB) error {
	ddls := []string{
		"CREATE EXTENSION IF NOT EXISTS pg_trgm;",

		// LOWER(name) LIKE '%word%' lookups from /search/name
		"CREATE INDEX IF NOT EXISTS idx_events_name_trgm ON events USING GIN (LOWER(name) gin_trgm_ops);",

		// food / dietary_tags are JSON text; substring matches benefit from trigram too
		"CREATE INDEX IF NOT EXISTS idx_events_food_trgm ON events USING GIN (food gin_trgm_ops);",
		"CREATE INDEX IF NOT EXISTS idx_foods_dietary_tags_trgm ON foods USING GIN (dietary_tags gin_trgm_ops);",

		"ALTER TABLE foods DROP CONSTRAINT IF EXISTS foods_quantity_non_negative;",
		"ALTER TABLE foods ADD CONSTRAINT foods_quantity_non_negative CHECK (quantity IS NULL OR quantity >= 0);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
