package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/outreach/internal/core/profileurl"
	"github.com/example/outreach/internal/db"
	"github.com/example/outreach/internal/ports/secondary"
)

// EnrichmentRepository implements secondary.EnrichmentCache.
type EnrichmentRepository struct {
	db *db.DB
}

// NewEnrichmentRepository creates a new enrichment cache repository.
func NewEnrichmentRepository(database *db.DB) *EnrichmentRepository {
	return &EnrichmentRepository{db: database}
}

// FindByProfileReference matches exactly or by the scheme/www-stripped form.
func (r *EnrichmentRepository) FindByProfileReference(ctx context.Context, normalizedRef string) (*secondary.EnrichmentRecord, error) {
	if normalizedRef == "" {
		return nil, secondary.ErrNotFound
	}
	stripped := strings.ToLower(profileurl.StripSchemeAndWWW(normalizedRef))

	var fullName, firstName, lastName, phone, email, company, title sql.NullString
	record := &secondary.EnrichmentRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, profile_url, full_name, first_name, last_name, phone, email, company, title, updated_at
		FROM enrichment_cache
		WHERE profile_url = ? OR `+strippedURL("profile_url")+` = ?
		ORDER BY CASE WHEN profile_url = ? THEN 0 ELSE 1 END, updated_at DESC
		LIMIT 1`,
		normalizedRef, stripped, normalizedRef,
	).Scan(&record.ID, &record.ProfileURL, &fullName, &firstName, &lastName, &phone, &email, &company, &title, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find enrichment record: %w", err)
	}

	record.FullName = fullName.String
	record.FirstName = firstName.String
	record.LastName = lastName.String
	record.Phone = phone.String
	record.Email = email.String
	record.Company = company.String
	record.Title = title.String
	return record, nil
}

// Ensure EnrichmentRepository implements the interface
var _ secondary.EnrichmentCache = (*EnrichmentRepository)(nil)
