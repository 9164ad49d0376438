package db

import (
	"context"
	"fmt"
	"time"
)

// SeedFixtures populates a demo organization: pipeline stages, a default agent,
// an active account link and a couple of enrichment cache entries.
func SeedFixtures(ctx context.Context, d *DB, organizationID string) error {
	now := time.Now().UTC()

	stages := []struct{ id, key, name string }{
		{"STAGE-001", "new", "New"},
		{"STAGE-002", "li_request_sent", "LinkedIn Request Sent"},
		{"STAGE-003", "li_request_accepted", "LinkedIn Request Accepted"},
		{"STAGE-004", "li_request_declined", "LinkedIn Request Declined"},
		{"STAGE-005", "li_call_triggered", "Call Triggered"},
	}
	for i, s := range stages {
		if _, err := d.ExecContext(ctx,
			"INSERT INTO pipeline_stages (id, organization_id, stage_key, name, position) VALUES (?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING",
			s.id, organizationID, s.key, s.name, i,
		); err != nil {
			return fmt.Errorf("seed pipeline stages: %w", err)
		}
	}

	if _, err := d.ExecContext(ctx,
		"INSERT INTO organization_settings (organization_id, default_agent_id, updated_at) VALUES (?, ?, ?) ON CONFLICT (organization_id) DO NOTHING",
		organizationID, "agent-demo", now,
	); err != nil {
		return fmt.Errorf("seed organization settings: %w", err)
	}

	if _, err := d.ExecContext(ctx,
		"INSERT INTO account_links (id, organization_id, platform, account_id, status, is_active, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT (account_id) DO NOTHING",
		"LINK-001", organizationID, "linkedin", "demo-account", "connected", true, now,
	); err != nil {
		return fmt.Errorf("seed account links: %w", err)
	}

	cache := []struct{ id, url, first, last, phone, company, title string }{
		{"CACHE-001", "https://www.linkedin.com/in/jane-roe", "Jane", "Roe", "+1 (555) 010-2030", "Acme", "CTO"},
		{"CACHE-002", "https://www.linkedin.com/in/john-doe-8a1b2c", "John", "Doe", "", "Globex", "VP Sales"},
	}
	for _, c := range cache {
		if _, err := d.ExecContext(ctx,
			"INSERT INTO enrichment_cache (id, profile_url, first_name, last_name, phone, company, title, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT (profile_url) DO NOTHING",
			c.id, c.url, c.first, c.last, nullIfEmpty(c.phone), c.company, c.title, now,
		); err != nil {
			return fmt.Errorf("seed enrichment cache: %w", err)
		}
	}

	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
