package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/outreach/internal/adapters/sqlite"
)

func TestProcessedEventRepository_SeenOrRecord(t *testing.T) {
	repo := sqlite.NewProcessedEventRepository(setupTestDB(t))
	ctx := context.Background()

	dup, err := repo.SeenOrRecord(ctx, "2024-05-01T10:00:00Z_https://www.linkedin.com/in/jdoe")
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = repo.SeenOrRecord(ctx, "2024-05-01T10:00:00Z_https://www.linkedin.com/in/jdoe")
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestProcessedEventRepository_Purge(t *testing.T) {
	repo := sqlite.NewProcessedEventRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.SeenOrRecord(ctx, "fp-1")
	require.NoError(t, err)

	removed, err := repo.Purge(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = repo.Purge(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	dup, err := repo.SeenOrRecord(ctx, "fp-1")
	require.NoError(t, err)
	assert.False(t, dup, "purged fingerprint is processable again")
}
