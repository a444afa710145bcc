package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/LovationAdmin/device-compare-api/models"

	"github.com/google/uuid"
)

// ============================================================================
// CATALOG SNAPSHOTS
// Raw upstream payloads are cached per category so a restart does not hit
// the upstream API for every category at once.
// ============================================================================

// Snapshot is one cached upstream payload.
type Snapshot struct {
	Category   models.Category
	Payload    []byte
	Generation int64
	FetchedAt  time.Time
	ExpiresAt  time.Time
}

// SnapshotStore persists snapshots. Get returns nil, nil when there is no
// live snapshot.
type SnapshotStore interface {
	Get(ctx context.Context, category models.Category) (*Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	CleanExpired(ctx context.Context) (int64, error)
}

type PostgresSnapshotStore struct {
	DB *sql.DB
}

func NewPostgresSnapshotStore(db *sql.DB) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{DB: db}
}

func (s *PostgresSnapshotStore) Get(ctx context.Context, category models.Category) (*Snapshot, error) {
	var snap Snapshot
	var cat string
	err := s.DB.QueryRowContext(ctx, `
		SELECT category, payload, generation, fetched_at, expires_at
		FROM catalog_snapshots
		WHERE category = $1 AND expires_at > $2`,
		string(category), time.Now(),
	).Scan(&cat, &snap.Payload, &snap.Generation, &snap.FetchedAt, &snap.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	snap.Category = models.Category(cat)
	return &snap, nil
}

// Save upserts a snapshot unless a newer generation is already stored.
func (s *PostgresSnapshotStore) Save(ctx context.Context, snap Snapshot) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO catalog_snapshots (category, payload, generation, fetched_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (category) DO UPDATE
		SET payload = EXCLUDED.payload,
			generation = EXCLUDED.generation,
			fetched_at = EXCLUDED.fetched_at,
			expires_at = EXCLUDED.expires_at
		WHERE catalog_snapshots.generation <= EXCLUDED.generation`,
		string(snap.Category), snap.Payload, snap.Generation, snap.FetchedAt, snap.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *PostgresSnapshotStore) CleanExpired(ctx context.Context) (int64, error) {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM catalog_snapshots WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to clean snapshots: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// ============================================================================
// FEATURE CLICKS
// ============================================================================

// ClickStore records feature chip clicks.
type ClickStore interface {
	RecordClick(ctx context.Context, click models.FeatureClick) error
	ClickCounts(ctx context.Context, category models.Category) (map[string]int, error)
	CleanOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

type PostgresClickStore struct {
	DB *sql.DB
}

func NewPostgresClickStore(db *sql.DB) *PostgresClickStore {
	return &PostgresClickStore{DB: db}
}

func (s *PostgresClickStore) RecordClick(ctx context.Context, click models.FeatureClick) error {
	if click.ID == "" {
		click.ID = uuid.New().String()
	}
	if click.CreatedAt.IsZero() {
		click.CreatedAt = time.Now()
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO feature_clicks (id, device_type, feature_id, client_ip, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		click.ID, string(click.DeviceType), click.FeatureID, click.ClientIP, click.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}
	return nil
}

func (s *PostgresClickStore) ClickCounts(ctx context.Context, category models.Category) (map[string]int, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT feature_id, COUNT(*)
		FROM feature_clicks
		WHERE device_type = $1
		GROUP BY feature_id`,
		string(category),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count clicks: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var featureID string
		var n int
		if err := rows.Scan(&featureID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan click count: %w", err)
		}
		counts[featureID] = n
	}
	return counts, rows.Err()
}

func (s *PostgresClickStore) CleanOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM feature_clicks WHERE created_at < $1`, time.Now().Add(-age))
	if err != nil {
		return 0, fmt.Errorf("failed to clean clicks: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
