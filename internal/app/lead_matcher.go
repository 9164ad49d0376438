package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	corelead "github.com/example/outreach/internal/core/lead"
	"github.com/example/outreach/internal/core/profileurl"
	"github.com/example/outreach/internal/ports/secondary"
)

// MatchKind is the outcome of resolving an event subject to a lead.
type MatchKind string

const (
	MatchFound       MatchKind = "matched"
	MatchCreated     MatchKind = "created"
	MatchNotEligible MatchKind = "not_eligible"
)

// MatchRequest describes the subject of an inbound event.
type MatchRequest struct {
	ProfileRef  string // normalized
	Names       corelead.NameSources
	AllowCreate bool
}

// MatchResult is the resolved lead, if any.
type MatchResult struct {
	Kind MatchKind
	Lead *secondary.LeadRecord
}

// LeadMatcher resolves event subjects to leads, auto-creating a lead only when the
// enrichment cache corroborates the subject.
type LeadMatcher struct {
	leadRepo    secondary.LeadRepository
	cache       secondary.EnrichmentCache
	accountRepo secondary.AccountLinkRepository
	stages      *StageResolver
	logger      *slog.Logger
	newID       func() string
}

// NewLeadMatcher creates a new LeadMatcher with injected dependencies.
func NewLeadMatcher(
	leadRepo secondary.LeadRepository,
	cache secondary.EnrichmentCache,
	accountRepo secondary.AccountLinkRepository,
	stages *StageResolver,
	logger *slog.Logger,
) *LeadMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadMatcher{
		leadRepo:    leadRepo,
		cache:       cache,
		accountRepo: accountRepo,
		stages:      stages,
		logger:      logger,
		newID:       uuid.NewString,
	}
}

// Resolve finds the lead for req.ProfileRef or, when allowed and corroborated, creates one.
func (m *LeadMatcher) Resolve(ctx context.Context, req MatchRequest) (*MatchResult, error) {
	if req.ProfileRef == "" {
		return &MatchResult{Kind: MatchNotEligible}, nil
	}

	found, err := m.leadRepo.FindByProfileReference(ctx, req.ProfileRef)
	if err == nil {
		return &MatchResult{Kind: MatchFound, Lead: found}, nil
	}
	if !errors.Is(err, secondary.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up lead: %w", err)
	}

	if !req.AllowCreate {
		return &MatchResult{Kind: MatchNotEligible}, nil
	}

	cached, err := m.cache.FindByProfileReference(ctx, req.ProfileRef)
	if errors.Is(err, secondary.ErrNotFound) {
		m.logger.InfoContext(ctx, "no lead and no enrichment record, not eligible for auto-creation",
			"profile_url", req.ProfileRef)
		return &MatchResult{Kind: MatchNotEligible}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check enrichment cache: %w", err)
	}

	created, err := m.createFromCache(ctx, req, cached)
	if err != nil {
		return nil, err
	}
	return &MatchResult{Kind: MatchCreated, Lead: created}, nil
}

func (m *LeadMatcher) createFromCache(ctx context.Context, req MatchRequest, cached *secondary.EnrichmentRecord) (*secondary.LeadRecord, error) {
	names := req.Names
	if names.PublicIdentifier == "" {
		names.PublicIdentifier = profileurl.PublicIdentifier(req.ProfileRef)
	}

	orgID, err := m.accountRepo.FindActiveOrganizationID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve organization: %w", err)
	}

	record := &secondary.LeadRecord{
		ID:             m.newID(),
		Name:           corelead.ResolveName(names),
		Email:          cached.Email,
		Company:        cached.Company,
		Title:          cached.Title,
		Status:         string(corelead.StatusRequestAccepted),
		Stage:          m.stages.Resolve(ctx, orgID, corelead.StatusRequestAccepted),
		OrganizationID: orgID,
	}

	platform := profileurl.DetectPlatform(req.ProfileRef)
	if platform == profileurl.PlatformUnknown {
		platform = profileurl.PlatformLinkedIn
	}
	profile := &secondary.LeadProfileRecord{
		ID:         m.newID(),
		Platform:   string(platform),
		ProfileURL: req.ProfileRef,
	}

	if err := m.leadRepo.CreateWithProfile(ctx, record, profile); err != nil {
		return nil, fmt.Errorf("failed to auto-create lead: %w", err)
	}

	m.logger.InfoContext(ctx, "auto-created lead from enrichment cache",
		"lead_id", record.ID, "profile_url", req.ProfileRef, "organization_id", orgID)
	return record, nil
}
