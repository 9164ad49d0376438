package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/outreach/internal/adapters/sqlite"
	"github.com/example/outreach/internal/db"
	"github.com/example/outreach/internal/ports/secondary"
)

func TestLeadRepository_FindByProfileReference(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		seed    map[string]string // lead id -> stored profile url
		ref     string
		want    string
		wantErr error
	}{
		{
			name: "exact match",
			seed: map[string]string{"L1": "https://www.linkedin.com/in/jdoe"},
			ref:  "https://www.linkedin.com/in/jdoe",
			want: "L1",
		},
		{
			name: "stripped match on legacy stored form",
			seed: map[string]string{"L1": "http://linkedin.com/in/jdoe"},
			ref:  "https://www.linkedin.com/in/jdoe",
			want: "L1",
		},
		{
			name: "substring match",
			seed: map[string]string{"L1": "https://www.linkedin.com/in/jdoe/?trk=abc"},
			ref:  "https://www.linkedin.com/in/jdoe",
			want: "L1",
		},
		{
			name: "exact preferred over substring",
			seed: map[string]string{
				"L1": "https://www.linkedin.com/in/jdoe/details",
				"L2": "https://www.linkedin.com/in/jdoe",
			},
			ref:  "https://www.linkedin.com/in/jdoe",
			want: "L2",
		},
		{
			name: "stripped match keeps www. inside the path",
			seed: map[string]string{"L1": "HTTP://WWW.linkedin.com/in/www.jdoe"},
			ref:  "https://www.linkedin.com/in/www.jdoe",
			want: "L1",
		},
		{
			name:    "www. inside the path is not stripped",
			seed:    map[string]string{"L1": "linkedin.com/in/jwww.doe"},
			ref:     "https://www.linkedin.com/in/jdoe",
			wantErr: secondary.ErrNotFound,
		},
		{
			name:    "no match",
			seed:    map[string]string{"L1": "https://www.linkedin.com/in/someone-else"},
			ref:     "https://www.linkedin.com/in/jdoe",
			wantErr: secondary.ErrNotFound,
		},
		{
			name:    "empty reference",
			ref:     "",
			wantErr: secondary.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupTestDB(t)
			repo := sqlite.NewLeadRepository(d)
			for id, url := range tt.seed {
				seedLead(t, d, id, url, base)
			}

			got, err := repo.FindByProfileReference(context.Background(), tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
			assert.NotEmpty(t, got.ProfileURL)
		})
	}
}

func TestLeadRepository_FindByProfileReference_MostRecentlyUpdated(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewLeadRepository(d)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	seedLead(t, d, "OLD", "https://www.linkedin.com/in/jdoe", base)
	seedLead(t, d, "NEW", "https://www.linkedin.com/in/jdoe", base.Add(time.Hour))

	got, err := repo.FindByProfileReference(context.Background(), "https://www.linkedin.com/in/jdoe")
	require.NoError(t, err)
	assert.Equal(t, "NEW", got.ID)
}

func TestLeadRepository_FindByProfileReference_SkipsDeleted(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewLeadRepository(d)
	ctx := context.Background()

	seedLead(t, d, "L1", "https://www.linkedin.com/in/jdoe", time.Now())
	_, err := d.ExecContext(ctx, "UPDATE leads SET is_deleted = ? WHERE id = ?", true, "L1")
	require.NoError(t, err)

	_, err = repo.FindByProfileReference(ctx, "https://www.linkedin.com/in/jdoe")
	assert.ErrorIs(t, err, secondary.ErrNotFound)
}

func TestLeadRepository_CreateWithProfile(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewLeadRepository(d)
	ctx := context.Background()

	lead := &secondary.LeadRecord{
		ID:             "L1",
		Name:           "Jane Roe",
		Status:         "request_accepted",
		Stage:          "request_accepted",
		OrganizationID: "org-1",
	}
	profile := &secondary.LeadProfileRecord{
		ID:         "P1",
		Platform:   "linkedin",
		ProfileURL: "https://www.linkedin.com/in/jane-roe",
	}
	require.NoError(t, repo.CreateWithProfile(ctx, lead, profile))

	got, err := repo.FindByProfileReference(ctx, "https://www.linkedin.com/in/jane-roe")
	require.NoError(t, err)
	assert.Equal(t, "L1", got.ID)
	assert.Equal(t, "Jane Roe", got.Name)
	assert.Equal(t, "request_accepted", got.Stage)
	assert.Equal(t, "org-1", got.OrganizationID)
	assert.Empty(t, got.Phone)
}

func TestLeadRepository_CreateWithProfile_RollsBack(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewLeadRepository(d)
	ctx := context.Background()

	seedLead(t, d, "EXISTING", "https://www.linkedin.com/in/other", time.Now())

	// Profile ID collides with the seeded one, so the lead insert must roll back.
	lead := &secondary.LeadRecord{ID: "L2", Name: "Jane"}
	profile := &secondary.LeadProfileRecord{ID: "profile-EXISTING", Platform: "linkedin", ProfileURL: "https://www.linkedin.com/in/jane"}
	require.Error(t, repo.CreateWithProfile(ctx, lead, profile))

	_, err := repo.GetByID(ctx, "L2")
	assert.ErrorIs(t, err, secondary.ErrNotFound)
}

func TestLeadRepository_UpdateStage(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewLeadRepository(d)
	ctx := context.Background()
	seedLead(t, d, "L1", "https://www.linkedin.com/in/jdoe", time.Now())

	require.NoError(t, repo.UpdateStage(ctx, "L1", "call_triggered", "stage-ct"))

	got, err := repo.GetByID(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, "call_triggered", got.Status)
	assert.Equal(t, "stage-ct", got.Stage)

	assert.ErrorIs(t, repo.UpdateStage(ctx, "MISSING", "x", "y"), secondary.ErrNotFound)
}

func TestLeadRepository_UpdatePhoneIfEmpty(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewLeadRepository(d)
	ctx := context.Background()
	seedLead(t, d, "L1", "https://www.linkedin.com/in/jdoe", time.Now())

	updated, err := repo.UpdatePhoneIfEmpty(ctx, "L1", "+15551234567")
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = repo.UpdatePhoneIfEmpty(ctx, "L1", "+19999999999")
	require.NoError(t, err)
	assert.False(t, updated, "existing phone must not be clobbered")

	got, err := repo.GetByID(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", got.Phone)
}

func TestLeadRepository_Postgres(t *testing.T) {
	d := setupPostgresDB(t)
	require.Equal(t, db.DialectPostgres, d.Dialect())
	repo := sqlite.NewLeadRepository(d)
	ctx := context.Background()

	seedLead(t, d, "L1", "http://linkedin.com/in/jdoe", time.Now())

	got, err := repo.FindByProfileReference(ctx, "https://www.linkedin.com/in/jdoe")
	require.NoError(t, err)
	assert.Equal(t, "L1", got.ID)

	updated, err := repo.UpdatePhoneIfEmpty(ctx, "L1", "+15551234567")
	require.NoError(t, err)
	assert.True(t, updated)
}
