// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/outreach/internal/core/effects"
	corelead "github.com/example/outreach/internal/core/lead"
	"github.com/example/outreach/internal/ports/primary"
	"github.com/example/outreach/internal/ports/secondary"
)

// SideEffectConfig carries the switches that shape side-effect execution.
type SideEffectConfig struct {
	AutoCallEnabled bool
	BatchMode       bool
	GlobalAgentID   string
	CallLookback    time.Duration // window in which a logged acceptance call to the same number blocks dialing
}

// SideEffectExecutor interprets planned side effects.
// This is the "Imperative Shell" - the only place side-effect I/O happens.
type SideEffectExecutor struct {
	leadRepo secondary.LeadRepository
	cache    secondary.EnrichmentCache
	callRepo secondary.CallHistoryRepository
	orgRepo  secondary.OrganizationRepository
	placer   secondary.CallPlacer
	stages   *StageResolver
	config   SideEffectConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewSideEffectExecutor creates a new SideEffectExecutor with injected dependencies.
func NewSideEffectExecutor(
	leadRepo secondary.LeadRepository,
	cache secondary.EnrichmentCache,
	callRepo secondary.CallHistoryRepository,
	orgRepo secondary.OrganizationRepository,
	placer secondary.CallPlacer,
	stages *StageResolver,
	config SideEffectConfig,
	logger *slog.Logger,
) *SideEffectExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	if config.CallLookback <= 0 {
		config.CallLookback = corelead.DefaultCallLookback
	}
	return &SideEffectExecutor{
		leadRepo: leadRepo,
		cache:    cache,
		callRepo: callRepo,
		orgRepo:  orgRepo,
		placer:   placer,
		stages:   stages,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Config returns the executor's switches.
func (e *SideEffectExecutor) Config() SideEffectConfig {
	return e.config
}

// executionState is carried across the steps of one plan.
type executionState struct {
	lead   *secondary.LeadRecord
	phone  string
	cached *secondary.EnrichmentRecord
}

// Execute runs the plan in order. Each step reports its own outcome; a failed step
// never aborts the ones after it.
func (e *SideEffectExecutor) Execute(ctx context.Context, lead *secondary.LeadRecord, plan []effects.Effect) []primary.SideEffectResult {
	state := &executionState{lead: lead, phone: strings.TrimSpace(lead.Phone)}

	var results []primary.SideEffectResult
	for _, eff := range plan {
		results = append(results, e.executeOne(ctx, state, eff)...)
	}
	return results
}

func (e *SideEffectExecutor) executeOne(ctx context.Context, state *executionState, eff effects.Effect) []primary.SideEffectResult {
	switch typed := eff.(type) {
	case effects.RevealPhoneEffect:
		return e.revealPhone(ctx, state, typed)
	case effects.PlaceCallEffect:
		return []primary.SideEffectResult{e.placeCall(ctx, state)}
	case effects.QueueCallEffect:
		e.logger.InfoContext(ctx, "call queued for batch processing", "lead_id", typed.LeadID)
		return []primary.SideEffectResult{{
			Step: effects.StepAutoCall, Status: primary.CallQueuedBatch, Success: true,
			Detail: "queued for batch processing",
		}}
	case effects.SkipEffect:
		return []primary.SideEffectResult{skipResult(typed)}
	default:
		return []primary.SideEffectResult{{
			Step: eff.EffectType(), Status: "failed",
			Detail: fmt.Sprintf("unknown effect type: %T", eff),
		}}
	}
}

func skipResult(eff effects.SkipEffect) primary.SideEffectResult {
	status := "skipped"
	switch eff.Step {
	case effects.StepPhoneReveal:
		status = primary.PhoneSkippedHasPhone
	case effects.StepAutoCall:
		status = primary.CallDisabled
	}
	return primary.SideEffectResult{Step: eff.Step, Status: status, Success: true, Detail: eff.Reason}
}

// revealPhone tries the enrichment cache, then the direct-profile and third-party
// sources. The latter two have no backing integration yet and report as such.
func (e *SideEffectExecutor) revealPhone(ctx context.Context, state *executionState, eff effects.RevealPhoneEffect) []primary.SideEffectResult {
	logger := e.logger.With("lead_id", eff.LeadID, "profile_url", eff.ProfileRef)

	if state.phone != "" {
		return []primary.SideEffectResult{{
			Step: effects.StepPhoneReveal, Status: primary.PhoneSkippedHasPhone, Success: true,
		}}
	}

	cached, err := e.cachedProfile(ctx, state, eff.ProfileRef)
	if err != nil {
		logger.ErrorContext(ctx, "enrichment cache lookup failed", "error", err)
		return []primary.SideEffectResult{{
			Step: effects.StepPhoneReveal, Status: primary.PhoneFailed, Detail: err.Error(),
		}}
	}

	if cached != nil && strings.TrimSpace(cached.Phone) != "" {
		phone := strings.TrimSpace(cached.Phone)
		updated, err := e.leadRepo.UpdatePhoneIfEmpty(ctx, eff.LeadID, phone)
		if err != nil {
			logger.ErrorContext(ctx, "failed to store revealed phone", "error", err)
			return []primary.SideEffectResult{{
				Step: effects.StepPhoneReveal, Status: primary.PhoneFailed, Source: primary.PhoneSourceCache, Detail: err.Error(),
			}}
		}
		if !updated {
			// Another writer got there first; use whatever is stored now.
			if current, err := e.leadRepo.GetByID(ctx, eff.LeadID); err == nil && current.Phone != "" {
				phone = current.Phone
			}
		}
		state.phone = phone
		logger.InfoContext(ctx, "phone revealed", "source", primary.PhoneSourceCache, "stored", updated)
		return []primary.SideEffectResult{{
			Step: effects.StepPhoneReveal, Status: primary.PhoneRevealed, Source: primary.PhoneSourceCache, Success: true,
		}}
	}

	logger.InfoContext(ctx, "no cached phone, remaining phone sources are not implemented")
	return []primary.SideEffectResult{
		{Step: effects.StepPhoneReveal, Status: primary.PhoneNotImplemented, Source: "direct_profile", Detail: "direct profile contact lookup not implemented, falling through"},
		{Step: effects.StepPhoneReveal, Status: primary.PhoneNotImplemented, Source: "third_party", Detail: "third-party enrichment not implemented, falling through"},
		{Step: effects.StepPhoneReveal, Status: primary.PhoneNotFound, Detail: "no phone number available, call deferred"},
	}
}

// cachedProfile loads the enrichment record once per plan. A miss is (nil, nil).
func (e *SideEffectExecutor) cachedProfile(ctx context.Context, state *executionState, profileRef string) (*secondary.EnrichmentRecord, error) {
	if state.cached != nil || profileRef == "" {
		return state.cached, nil
	}
	cached, err := e.cache.FindByProfileReference(ctx, profileRef)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	state.cached = cached
	return cached, nil
}

func (e *SideEffectExecutor) placeCall(ctx context.Context, state *executionState) primary.SideEffectResult {
	lead := state.lead
	logger := e.logger.With("lead_id", lead.ID)
	result := primary.SideEffectResult{Step: effects.StepAutoCall}

	if state.phone == "" {
		logger.InfoContext(ctx, "auto-call skipped, lead has no phone")
		result.Status = primary.CallNoPhone
		result.Detail = "no phone number"
		return result
	}

	phone := corelead.NormalizePhone(state.phone)
	if !corelead.IsDialable(phone) {
		logger.WarnContext(ctx, "auto-call skipped, phone number too short", "phone", state.phone)
		result.Status = primary.CallInvalidPhone
		result.Detail = fmt.Sprintf("phone number %q has fewer than %d digits", state.phone, corelead.MinPhoneDigits)
		return result
	}

	// Numbers learned during this plan were not covered by the acceptance guards.
	marker := acceptanceCallMarker(lead.ID)
	recent, err := e.callRepo.HasRecentCallForPhone(ctx, phone, e.now().Add(-e.config.CallLookback), marker)
	if err != nil {
		logger.ErrorContext(ctx, "call history lookup failed", "error", err)
		result.Status = primary.CallFailed
		result.Detail = "call history unavailable: " + err.Error()
		return result
	}
	if recent {
		logger.InfoContext(ctx, "auto-call skipped, number already called", "phone", phone)
		result.Status = primary.CallRecentExists
		result.Success = true
		result.Detail = fmt.Sprintf("an acceptance call to %s is already logged in the last %s", phone, e.config.CallLookback)
		return result
	}

	orgAgent, err := e.orgRepo.DefaultAgentID(ctx, lead.OrganizationID)
	if err != nil {
		logger.WarnContext(ctx, "organization agent lookup failed", "error", err)
	}
	agentID := corelead.ResolveAgentID(lead.AgentID, orgAgent, e.config.GlobalAgentID)
	if agentID == "" {
		logger.WarnContext(ctx, "auto-call skipped, no calling agent configured")
		result.Status = primary.CallNoAgent
		result.Detail = "no calling agent configured"
		return result
	}

	company, title := lead.Company, lead.Title
	if company == "" || title == "" {
		if cached, err := e.cachedProfile(ctx, state, lead.ProfileURL); err == nil && cached != nil {
			if company == "" {
				company = cached.Company
			}
			if title == "" {
				title = cached.Title
			}
		}
	}
	callContext := corelead.BuildCallContext(corelead.CallContextInput{Name: lead.Name, Company: company, Title: title})

	resp, err := e.placer.PlaceCall(ctx, secondary.CallRequest{
		AgentID:  agentID,
		ToNumber: phone,
		LeadName: lead.Name,
		Context:  callContext,
		LeadID:   lead.ID,
	})
	if err != nil {
		logger.ErrorContext(ctx, "call dispatch failed", "error", err)
		result.Status = primary.CallFailed
		result.Detail = err.Error()
		return result
	}
	if !resp.Success {
		logger.WarnContext(ctx, "call service rejected call", "message", resp.Message)
		result.Status = primary.CallFailed
		result.Detail = resp.Message
		return result
	}

	if err := e.callRepo.Record(ctx, &secondary.CallRecord{
		LeadID:         lead.ID,
		PhoneNumber:    phone,
		AgentID:        agentID,
		Context:        callContext,
		SourceTag:      marker.SourceTag,
		IdempotencyKey: marker.IdempotencyKey,
		Status:         primary.CallPlaced,
		ProviderCallID: resp.CallID,
		CreatedAt:      e.now().UTC(),
	}); err != nil {
		logger.ErrorContext(ctx, "failed to log placed call", "error", err)
	}

	stage := e.stages.Resolve(ctx, lead.OrganizationID, corelead.StatusCallTriggered)
	if err := e.leadRepo.UpdateStage(ctx, lead.ID, string(corelead.StatusCallTriggered), stage); err != nil {
		logger.ErrorContext(ctx, "call placed but stage update failed", "error", err)
		result.Status = primary.CallPlaced
		result.Success = true
		result.Detail = "call placed; stage update failed: " + err.Error()
		return result
	}
	lead.Status = string(corelead.StatusCallTriggered)
	lead.Stage = stage

	logger.InfoContext(ctx, "call placed", "agent_id", agentID, "call_id", resp.CallID)
	result.Status = primary.CallPlaced
	result.Success = true
	result.Detail = resp.CallID
	return result
}
