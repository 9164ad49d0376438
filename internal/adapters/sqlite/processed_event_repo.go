package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/outreach/internal/db"
	"github.com/example/outreach/internal/ports/secondary"
)

// ProcessedEventRepository is the durable secondary.FingerprintStore.
// Fingerprints survive restarts until purged.
type ProcessedEventRepository struct {
	db  *db.DB
	now func() time.Time
}

// NewProcessedEventRepository creates a new durable fingerprint store.
func NewProcessedEventRepository(database *db.DB) *ProcessedEventRepository {
	return &ProcessedEventRepository{db: database, now: time.Now}
}

// SeenOrRecord inserts the fingerprint; an existing row means a duplicate.
func (r *ProcessedEventRepository) SeenOrRecord(ctx context.Context, fingerprint string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO processed_events (fingerprint, processed_at) VALUES (?, ?) ON CONFLICT (fingerprint) DO NOTHING",
		fingerprint, r.now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to record fingerprint: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 0, nil
}

// Purge deletes fingerprints processed before cutoff and returns how many were removed.
func (r *ProcessedEventRepository) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM processed_events WHERE processed_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge fingerprints: %w", err)
	}
	return result.RowsAffected()
}

// Ensure ProcessedEventRepository implements the interface
var _ secondary.FingerprintStore = (*ProcessedEventRepository)(nil)
