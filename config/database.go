package config

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// InitDB opens the Postgres pool. The database is optional: an empty URL
// returns a nil pool and no error.
func InitDB(dbURL string) (*sql.DB, error) {
	if dbURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS catalog_snapshots (
			category VARCHAR(50) PRIMARY KEY,
			payload JSONB NOT NULL,
			generation BIGINT NOT NULL DEFAULT 0,
			fetched_at TIMESTAMP NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS feature_clicks (
			id UUID PRIMARY KEY,
			device_type VARCHAR(50) NOT NULL,
			feature_id VARCHAR(100) NOT NULL,
			client_ip VARCHAR(64),
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_catalog_snapshots_expires_at ON catalog_snapshots(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_feature_clicks_device_type ON feature_clicks(device_type)`,
		`CREATE INDEX IF NOT EXISTS idx_feature_clicks_created_at ON feature_clicks(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
