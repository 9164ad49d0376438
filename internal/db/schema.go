package db

import (
	"context"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository tests load it
// via GetSchemaSQL() so a column referenced by code but missing here fails immediately.
//
// The statements are kept to the subset shared by SQLite and PostgreSQL: TEXT keys,
// TIMESTAMP columns written from Go in UTC, BOOLEAN with FALSE/TRUE literals.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT,
	phone TEXT,
	company TEXT,
	title TEXT,
	status TEXT NOT NULL DEFAULT 'new',
	stage TEXT,
	organization_id TEXT,
	agent_id TEXT,
	is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_organization ON leads(organization_id);

CREATE TABLE IF NOT EXISTS lead_profiles (
	id TEXT PRIMARY KEY,
	lead_id TEXT NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
	platform TEXT NOT NULL,
	profile_url TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lead_profiles_lead ON lead_profiles(lead_id);
CREATE INDEX IF NOT EXISTS idx_lead_profiles_url ON lead_profiles(profile_url);

CREATE TABLE IF NOT EXISTS enrichment_cache (
	id TEXT PRIMARY KEY,
	profile_url TEXT NOT NULL UNIQUE,
	full_name TEXT,
	first_name TEXT,
	last_name TEXT,
	phone TEXT,
	email TEXT,
	company TEXT,
	title TEXT,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS call_logs (
	id TEXT PRIMARY KEY,
	lead_id TEXT,
	phone_number TEXT,
	agent_id TEXT,
	context TEXT,
	source_tag TEXT,
	idempotency_key TEXT,
	status TEXT NOT NULL,
	provider_call_id TEXT,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_call_logs_lead ON call_logs(lead_id, created_at);
CREATE INDEX IF NOT EXISTS idx_call_logs_phone ON call_logs(phone_number, created_at);

CREATE TABLE IF NOT EXISTS pipeline_stages (
	id TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	stage_key TEXT NOT NULL,
	name TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_pipeline_stages_org ON pipeline_stages(organization_id, position);

CREATE TABLE IF NOT EXISTS organization_settings (
	organization_id TEXT PRIMARY KEY,
	default_agent_id TEXT,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS account_links (
	id TEXT PRIMARY KEY,
	organization_id TEXT,
	platform TEXT NOT NULL,
	account_id TEXT NOT NULL UNIQUE,
	status TEXT NOT NULL DEFAULT 'unknown',
	status_message TEXT,
	is_active BOOLEAN NOT NULL DEFAULT FALSE,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS processed_events (
	fingerprint TEXT PRIMARY KEY,
	processed_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_processed_events_at ON processed_events(processed_at);
`

// InitSchema creates any missing tables. It is safe to run on every start.
func InitSchema(ctx context.Context, d *DB) error {
	if _, err := d.DB.ExecContext(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
