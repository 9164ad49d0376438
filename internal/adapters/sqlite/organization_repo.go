package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/outreach/internal/db"
	"github.com/example/outreach/internal/ports/secondary"
)

// OrganizationRepository implements secondary.OrganizationRepository.
type OrganizationRepository struct {
	db *db.DB
}

// NewOrganizationRepository creates a new organization repository.
func NewOrganizationRepository(database *db.DB) *OrganizationRepository {
	return &OrganizationRepository{db: database}
}

// FindStageKeyByNameFragment returns the lowest-positioned stage whose key or name
// contains fragment.
func (r *OrganizationRepository) FindStageKeyByNameFragment(ctx context.Context, organizationID, fragment string) (string, error) {
	if organizationID == "" || fragment == "" {
		return "", secondary.ErrNotFound
	}
	pattern := likeContains(strings.ToLower(fragment))

	var key string
	err := r.db.QueryRowContext(ctx,
		`SELECT stage_key FROM pipeline_stages
		WHERE organization_id = ? AND (LOWER(stage_key) LIKE ? ESCAPE '\' OR LOWER(name) LIKE ? ESCAPE '\')
		ORDER BY position, stage_key
		LIMIT 1`,
		organizationID, pattern, pattern,
	).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", secondary.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to find stage: %w", err)
	}
	return key, nil
}

// DefaultAgentID returns the organization's default calling agent.
func (r *OrganizationRepository) DefaultAgentID(ctx context.Context, organizationID string) (string, error) {
	if organizationID == "" {
		return "", nil
	}
	var agentID sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT default_agent_id FROM organization_settings WHERE organization_id = ?",
		organizationID,
	).Scan(&agentID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get organization settings: %w", err)
	}
	return agentID.String, nil
}

// Ensure OrganizationRepository implements the interface
var _ secondary.OrganizationRepository = (*OrganizationRepository)(nil)
