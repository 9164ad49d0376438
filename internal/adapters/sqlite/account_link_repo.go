package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/outreach/internal/db"
	"github.com/example/outreach/internal/ports/secondary"
)

// AccountLinkRepository implements secondary.AccountLinkRepository.
type AccountLinkRepository struct {
	db *db.DB
}

// NewAccountLinkRepository creates a new account link repository.
func NewAccountLinkRepository(database *db.DB) *AccountLinkRepository {
	return &AccountLinkRepository{db: database}
}

// UpdateStatusByAccountID updates and returns the link carrying accountID.
func (r *AccountLinkRepository) UpdateStatusByAccountID(ctx context.Context, accountID string, update secondary.AccountStatusUpdate) (*secondary.AccountLinkRecord, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE account_links SET is_active = ?, status = ?, status_message = ?, updated_at = ? WHERE account_id = ?",
		update.IsActive, update.Status, nullString(update.StatusMessage), time.Now().UTC(), accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update account link: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("account %s: %w", accountID, secondary.ErrNotFound)
	}
	return r.getByAccountID(ctx, accountID)
}

func (r *AccountLinkRepository) getByAccountID(ctx context.Context, accountID string) (*secondary.AccountLinkRecord, error) {
	var orgID, message sql.NullString
	record := &secondary.AccountLinkRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, organization_id, platform, account_id, status, status_message, is_active, updated_at FROM account_links WHERE account_id = ?",
		accountID,
	).Scan(&record.ID, &orgID, &record.Platform, &record.AccountID, &record.Status, &message, &record.IsActive, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", accountID, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account link: %w", err)
	}
	record.OrganizationID = orgID.String
	record.StatusMessage = message.String
	return record, nil
}

// FindActiveOrganizationID returns the organization of the most recently updated
// active link that has one.
func (r *AccountLinkRepository) FindActiveOrganizationID(ctx context.Context) (string, error) {
	var orgID string
	err := r.db.QueryRowContext(ctx,
		`SELECT organization_id FROM account_links
		WHERE is_active = TRUE AND organization_id IS NOT NULL AND organization_id <> ''
		ORDER BY updated_at DESC
		LIMIT 1`,
	).Scan(&orgID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find active organization: %w", err)
	}
	return orgID, nil
}

// Create persists a new account link.
func (r *AccountLinkRepository) Create(ctx context.Context, link *secondary.AccountLinkRecord) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if link.UpdatedAt.IsZero() {
		link.UpdatedAt = time.Now().UTC()
	}
	if link.Status == "" {
		link.Status = "unknown"
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO account_links (id, organization_id, platform, account_id, status, status_message, is_active, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		link.ID, nullString(link.OrganizationID), link.Platform, link.AccountID, link.Status, nullString(link.StatusMessage),
		link.IsActive, link.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create account link: %w", err)
	}
	return nil
}

// Ensure AccountLinkRepository implements the interface
var _ secondary.AccountLinkRepository = (*AccountLinkRepository)(nil)
