package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/outreach/internal/adapters/sqlite"
	"github.com/example/outreach/internal/ports/secondary"
)

func TestEnrichmentRepository_FindByProfileReference(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewEnrichmentRepository(d)
	ctx := context.Background()

	seedEnrichment(t, d, "e-1", "http://linkedin.com/in/jane-roe", "+15550102030", "Acme", "", time.Now())

	got, err := repo.FindByProfileReference(ctx, "https://www.linkedin.com/in/jane-roe")
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, "+15550102030", got.Phone)
	assert.Equal(t, "Acme", got.Company)
	assert.Empty(t, got.Title)

	// Substring matches are not enough for the cache.
	_, err = repo.FindByProfileReference(ctx, "https://www.linkedin.com/in/jane")
	assert.ErrorIs(t, err, secondary.ErrNotFound)
}

func TestEnrichmentRepository_FindByProfileReference_PrefersExactMatch(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewEnrichmentRepository(d)
	now := time.Now()
	url := "https://www.linkedin.com/in/jane-roe"

	seedEnrichment(t, d, "e-exact", url, "", "", "Engineer", now.Add(-time.Hour))
	seedEnrichment(t, d, "e-stripped", "linkedin.com/in/jane-roe", "", "", "CTO", now)

	got, err := repo.FindByProfileReference(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "e-exact", got.ID)
	assert.Equal(t, "Engineer", got.Title)
}

func TestEnrichmentRepository_FindByProfileReference_OnlyLeadingWWWStripped(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewEnrichmentRepository(d)

	seedEnrichment(t, d, "e-1", "linkedin.com/in/jwww.doe", "", "", "", time.Now())

	_, err := repo.FindByProfileReference(context.Background(), "https://www.linkedin.com/in/jdoe")
	assert.ErrorIs(t, err, secondary.ErrNotFound)
}
