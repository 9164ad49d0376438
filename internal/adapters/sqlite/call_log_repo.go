package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/example/outreach/internal/db"
	"github.com/example/outreach/internal/ports/secondary"
)

// CallLogRepository implements secondary.CallHistoryRepository.
type CallLogRepository struct {
	db *db.DB
}

// NewCallLogRepository creates a new call log repository.
func NewCallLogRepository(database *db.DB) *CallLogRepository {
	return &CallLogRepository{db: database}
}

// HasRecentCallForLead matches the explicit idempotency key, or the source tag
// inside the free-text context for records written before the key existed.
func (r *CallLogRepository) HasRecentCallForLead(ctx context.Context, leadID string, since time.Time, q secondary.CallMarker) (bool, error) {
	return r.exists(ctx, "lead_id", leadID, since, q)
}

// HasRecentCallForPhone is HasRecentCallForLead keyed by the dialed number.
func (r *CallLogRepository) HasRecentCallForPhone(ctx context.Context, phone string, since time.Time, q secondary.CallMarker) (bool, error) {
	if phone == "" {
		return false, nil
	}
	return r.exists(ctx, "phone_number", phone, since, q)
}

func (r *CallLogRepository) exists(ctx context.Context, column, value string, since time.Time, q secondary.CallMarker) (bool, error) {
	// LIKE NULL never matches, so an empty tag disables the context fallback.
	var tagPattern any
	if q.SourceTag != "" {
		tagPattern = likeContains(q.SourceTag)
	}

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM call_logs
		WHERE `+column+` = ? AND created_at >= ?
		  AND ((idempotency_key IS NOT NULL AND idempotency_key = ?) OR context LIKE ? ESCAPE '\')`,
		value, since.UTC(), nullString(q.IdempotencyKey), tagPattern,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check call history: %w", err)
	}
	return count > 0, nil
}

// Record persists a call attempt. IDs are ULIDs so call logs sort by time.
func (r *CallLogRepository) Record(ctx context.Context, call *secondary.CallRecord) error {
	if call.CreatedAt.IsZero() {
		call.CreatedAt = time.Now().UTC()
	}
	if call.ID == "" {
		call.ID = ulid.MustNew(ulid.Timestamp(call.CreatedAt), ulid.DefaultEntropy()).String()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO call_logs (id, lead_id, phone_number, agent_id, context, source_tag, idempotency_key, status, provider_call_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		call.ID, nullString(call.LeadID), nullString(call.PhoneNumber), nullString(call.AgentID), nullString(call.Context),
		nullString(call.SourceTag), nullString(call.IdempotencyKey), call.Status, nullString(call.ProviderCallID),
		call.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record call: %w", err)
	}
	return nil
}

// Ensure CallLogRepository implements the interface
var _ secondary.CallHistoryRepository = (*CallLogRepository)(nil)
