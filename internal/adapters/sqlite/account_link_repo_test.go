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

func TestAccountLinkRepository_UpdateStatusByAccountID(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewAccountLinkRepository(d)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &secondary.AccountLinkRecord{
		OrganizationID: "org-1",
		Platform:       "linkedin",
		AccountID:      "acc-1",
		IsActive:       true,
		Status:         "connected",
	}))

	link, err := repo.UpdateStatusByAccountID(ctx, "acc-1", secondary.AccountStatusUpdate{
		IsActive:      false,
		Status:        "stopped",
		StatusMessage: "ERROR",
	})
	require.NoError(t, err)
	assert.Equal(t, "stopped", link.Status)
	assert.Equal(t, "ERROR", link.StatusMessage)
	assert.False(t, link.IsActive)
	assert.Equal(t, "org-1", link.OrganizationID)

	_, err = repo.UpdateStatusByAccountID(ctx, "missing", secondary.AccountStatusUpdate{})
	assert.ErrorIs(t, err, secondary.ErrNotFound)
}

func TestAccountLinkRepository_FindActiveOrganizationID(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewAccountLinkRepository(d)
	ctx := context.Background()

	got, err := repo.FindActiveOrganizationID(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &secondary.AccountLinkRecord{Platform: "linkedin", AccountID: "no-org", IsActive: true, UpdatedAt: base.Add(2 * time.Hour)}))
	require.NoError(t, repo.Create(ctx, &secondary.AccountLinkRecord{OrganizationID: "org-inactive", Platform: "linkedin", AccountID: "inactive", IsActive: false, UpdatedAt: base.Add(3 * time.Hour)}))
	require.NoError(t, repo.Create(ctx, &secondary.AccountLinkRecord{OrganizationID: "org-1", Platform: "linkedin", AccountID: "active", IsActive: true, UpdatedAt: base}))

	got, err = repo.FindActiveOrganizationID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "org-1", got)
}
