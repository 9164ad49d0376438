// Package sqlite contains SQL implementations of repository interfaces.
// Queries use "?" placeholders and the portable subset shared by SQLite and
// PostgreSQL; db.DB rebinds them per dialect.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/outreach/internal/core/profileurl"
	"github.com/example/outreach/internal/db"
	"github.com/example/outreach/internal/ports/secondary"
)

// strippedURL is the lowercased SQL form of profileurl.StripSchemeAndWWW applied to a
// column. Only a leading scheme and a leading "www." are removed.
func strippedURL(column string) string {
	lower := "LOWER(" + column + ")"
	noScheme := fmt.Sprintf(
		"(CASE WHEN %[1]s LIKE 'https://%%' THEN SUBSTR(%[1]s, 9) WHEN %[1]s LIKE 'http://%%' THEN SUBSTR(%[1]s, 8) ELSE %[1]s END)",
		lower)
	return fmt.Sprintf("(CASE WHEN %[1]s LIKE 'www.%%' THEN SUBSTR(%[1]s, 5) ELSE %[1]s END)", noScheme)
}

// likeContains builds a LIKE pattern matching s anywhere, with wildcards escaped.
func likeContains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// LeadRepository implements secondary.LeadRepository.
type LeadRepository struct {
	db  *db.DB
	now func() time.Time
}

// NewLeadRepository creates a new lead repository.
func NewLeadRepository(database *db.DB) *LeadRepository {
	return &LeadRepository{db: database, now: time.Now}
}

const leadColumns = "l.id, l.name, l.email, l.phone, l.company, l.title, l.status, l.stage, l.organization_id, l.agent_id, l.is_deleted, l.created_at, l.updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner, extra ...any) (*secondary.LeadRecord, error) {
	var (
		email, phone, company, title sql.NullString
		stage, orgID, agentID        sql.NullString
	)
	record := &secondary.LeadRecord{}
	dest := []any{
		&record.ID, &record.Name, &email, &phone, &company, &title, &record.Status, &stage,
		&orgID, &agentID, &record.IsDeleted, &record.CreatedAt, &record.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	record.Email = email.String
	record.Phone = phone.String
	record.Company = company.String
	record.Title = title.String
	record.Stage = stage.String
	record.OrganizationID = orgID.String
	record.AgentID = agentID.String
	return record, nil
}

// FindByProfileReference matches exact, then stripped, then substring; ties go to the
// most recently updated lead.
func (r *LeadRepository) FindByProfileReference(ctx context.Context, normalizedRef string) (*secondary.LeadRecord, error) {
	if normalizedRef == "" {
		return nil, secondary.ErrNotFound
	}
	stripped := strings.ToLower(profileurl.StripSchemeAndWWW(normalizedRef))

	query := `SELECT ` + leadColumns + `, p.profile_url,
		CASE WHEN p.profile_url = ? THEN 0 WHEN ` + strippedURL("p.profile_url") + ` = ? THEN 1 ELSE 2 END AS match_rank
	FROM leads l
	JOIN lead_profiles p ON p.lead_id = l.id
	WHERE l.is_deleted = FALSE
	  AND (p.profile_url = ? OR ` + strippedURL("p.profile_url") + ` = ? OR LOWER(p.profile_url) LIKE ? ESCAPE '\')
	ORDER BY match_rank, l.updated_at DESC
	LIMIT 1`

	var (
		profileURL string
		rank       int
	)
	row := r.db.QueryRowContext(ctx, query,
		normalizedRef, stripped,
		normalizedRef, stripped, likeContains(stripped),
	)
	record, err := scanLead(row, &profileURL, &rank)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find lead by profile reference: %w", err)
	}
	record.ProfileURL = profileURL
	return record, nil
}

// CreateWithProfile persists a lead and its profile link in one transaction.
func (r *LeadRepository) CreateWithProfile(ctx context.Context, lead *secondary.LeadRecord, profile *secondary.LeadProfileRecord) error {
	now := r.now().UTC()
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	if lead.UpdatedAt.IsZero() {
		lead.UpdatedAt = lead.CreatedAt
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	if lead.Status == "" {
		lead.Status = "new"
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO leads (id, name, email, phone, company, title, status, stage, organization_id, agent_id, is_deleted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.Name, nullString(lead.Email), nullString(lead.Phone), nullString(lead.Company), nullString(lead.Title),
		lead.Status, nullString(lead.Stage), nullString(lead.OrganizationID), nullString(lead.AgentID), false,
		lead.CreatedAt.UTC(), lead.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	profile.LeadID = lead.ID
	_, err = tx.ExecContext(ctx,
		"INSERT INTO lead_profiles (id, lead_id, platform, profile_url, created_at) VALUES (?, ?, ?, ?, ?)",
		profile.ID, profile.LeadID, profile.Platform, profile.ProfileURL, profile.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create lead profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit lead: %w", err)
	}
	lead.ProfileURL = profile.ProfileURL
	return nil
}

// GetByID retrieves a lead by its ID.
func (r *LeadRepository) GetByID(ctx context.Context, id string) (*secondary.LeadRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+leadColumns+" FROM leads l WHERE l.id = ?", id)
	record, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lead %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return record, nil
}

// UpdateStage sets status and stage.
func (r *LeadRepository) UpdateStage(ctx context.Context, id, status, stage string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE leads SET status = ?, stage = ?, updated_at = ? WHERE id = ?",
		status, nullString(stage), r.now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update lead stage: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("lead %s: %w", id, secondary.ErrNotFound)
	}
	return nil
}

// UpdatePhoneIfEmpty writes phone only while the lead has none.
func (r *LeadRepository) UpdatePhoneIfEmpty(ctx context.Context, id, phone string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE leads SET phone = ?, updated_at = ? WHERE id = ? AND (phone IS NULL OR phone = '')",
		phone, r.now().UTC(), id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update lead phone: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// Ensure LeadRepository implements the interface
var _ secondary.LeadRepository = (*LeadRepository)(nil)
