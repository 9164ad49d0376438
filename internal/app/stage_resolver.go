package app

import (
	"context"
	"errors"
	"log/slog"

	corelead "github.com/example/outreach/internal/core/lead"
	"github.com/example/outreach/internal/ports/secondary"
)

// StageResolver maps a lead status to the organization's pipeline stage key.
type StageResolver struct {
	orgRepo secondary.OrganizationRepository
	logger  *slog.Logger
}

// NewStageResolver creates a new StageResolver.
func NewStageResolver(orgRepo secondary.OrganizationRepository, logger *slog.Logger) *StageResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &StageResolver{orgRepo: orgRepo, logger: logger}
}

// Resolve returns the organization's stage key for status, or the status fallback
// when the organization has no matching stage or the lookup fails.
func (r *StageResolver) Resolve(ctx context.Context, organizationID string, status corelead.Status) string {
	target, ok := corelead.StageTargetFor(status)
	if !ok {
		return string(status)
	}

	key, err := r.orgRepo.FindStageKeyByNameFragment(ctx, organizationID, target.Fragment)
	switch {
	case err == nil:
		return corelead.ResolveStageKey(target, key, true)
	case errors.Is(err, secondary.ErrNotFound):
	default:
		r.logger.WarnContext(ctx, "stage lookup failed, using fallback",
			"organization_id", organizationID, "fragment", target.Fragment, "error", err)
	}
	return corelead.ResolveStageKey(target, "", false)
}
