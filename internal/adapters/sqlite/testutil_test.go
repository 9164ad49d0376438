// Package sqlite_test contains integration tests for the SQL repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// authoritative schema. Do not hardcode CREATE TABLE statements in test files;
// use setupTestDB() and the seed* helpers instead.
package sqlite_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/outreach/internal/db"
)

// setupTestDB creates an in-memory SQLite database with the authoritative schema.
func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err, "failed to open test db")
	// In-memory databases are per connection.
	sqlDB.SetMaxOpenConns(1)

	_, err = sqlDB.Exec(db.GetSchemaSQL())
	require.NoError(t, err, "failed to create schema")

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db.Wrap(sqlDB, db.DialectSQLite)
}

// setupPostgresDB connects to OUTREACH_TEST_POSTGRES_DSN or skips the test.
// Tables are truncated so runs start clean.
func setupPostgresDB(t *testing.T) *db.DB {
	t.Helper()

	dsn := os.Getenv("OUTREACH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("OUTREACH_TEST_POSTGRES_DSN not set")
	}

	d, err := db.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, db.InitSchema(context.Background(), d))

	_, err = d.ExecContext(context.Background(),
		"TRUNCATE leads, lead_profiles, enrichment_cache, call_logs, pipeline_stages, organization_settings, account_links, processed_events CASCADE")
	require.NoError(t, err)

	t.Cleanup(func() {
		d.Close()
	})
	return d
}

// seedLead inserts a lead with one profile reference.
func seedLead(t *testing.T, d *db.DB, id, profileURL string, updatedAt time.Time) {
	t.Helper()
	_, err := d.ExecContext(context.Background(),
		"INSERT INTO leads (id, name, status, stage, organization_id, is_deleted, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, "Lead "+id, "request_sent", "request_sent", "org-1", false, updatedAt.UTC(), updatedAt.UTC(),
	)
	require.NoError(t, err, "failed to seed lead")
	_, err = d.ExecContext(context.Background(),
		"INSERT INTO lead_profiles (id, lead_id, platform, profile_url, created_at) VALUES (?, ?, ?, ?, ?)",
		"profile-"+id, id, "linkedin", profileURL, updatedAt.UTC(),
	)
	require.NoError(t, err, "failed to seed lead profile")
}

// seedStage inserts a pipeline stage for an organization.
func seedStage(t *testing.T, d *db.DB, orgID, id, key, name string, position int) {
	t.Helper()
	_, err := d.ExecContext(context.Background(),
		"INSERT INTO pipeline_stages (id, organization_id, stage_key, name, position) VALUES (?, ?, ?, ?, ?)",
		id, orgID, key, name, position,
	)
	require.NoError(t, err, "failed to seed stage")
}

// seedEnrichment inserts an enrichment cache entry.
func seedEnrichment(t *testing.T, d *db.DB, id, profileURL, phone, company, title string, updatedAt time.Time) {
	t.Helper()
	_, err := d.ExecContext(context.Background(),
		"INSERT INTO enrichment_cache (id, profile_url, first_name, last_name, phone, company, title, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, profileURL, "Jane", "Roe", nullable(phone), nullable(company), nullable(title), updatedAt.UTC(),
	)
	require.NoError(t, err, "failed to seed enrichment record")
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
