package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/example/outreach/internal/core/account"
	"github.com/example/outreach/internal/core/event"
	corelead "github.com/example/outreach/internal/core/lead"
	"github.com/example/outreach/internal/core/profileurl"
	"github.com/example/outreach/internal/ctxutil"
	"github.com/example/outreach/internal/ports/primary"
	"github.com/example/outreach/internal/ports/secondary"
)

// WebhookConfig carries the reconciliation windows.
type WebhookConfig struct {
	MaxEventAge  time.Duration // acceptance events older than this are stale
	CallLookback time.Duration // window in which a logged acceptance call blocks another
}

// WebhookServiceImpl implements the WebhookService interface.
type WebhookServiceImpl struct {
	fingerprints secondary.FingerprintStore
	leadRepo     secondary.LeadRepository
	accountRepo  secondary.AccountLinkRepository
	callRepo     secondary.CallHistoryRepository
	matcher      *LeadMatcher
	executor     *SideEffectExecutor
	stages       *StageResolver
	config       WebhookConfig
	logger       *slog.Logger
	now          func() time.Time
}

// NewWebhookService creates a new WebhookService with injected dependencies.
func NewWebhookService(
	fingerprints secondary.FingerprintStore,
	leadRepo secondary.LeadRepository,
	accountRepo secondary.AccountLinkRepository,
	callRepo secondary.CallHistoryRepository,
	matcher *LeadMatcher,
	executor *SideEffectExecutor,
	stages *StageResolver,
	config WebhookConfig,
	logger *slog.Logger,
) *WebhookServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxEventAge <= 0 {
		config.MaxEventAge = corelead.DefaultMaxEventAge
	}
	if config.CallLookback <= 0 {
		config.CallLookback = corelead.DefaultCallLookback
	}
	return &WebhookServiceImpl{
		fingerprints: fingerprints,
		leadRepo:     leadRepo,
		accountRepo:  accountRepo,
		callRepo:     callRepo,
		matcher:      matcher,
		executor:     executor,
		stages:       stages,
		config:       config,
		logger:       logger,
		now:          time.Now,
	}
}

// HandleWebhook classifies and processes one delivery. Every path, panics included,
// ends in a result; nothing is returned as an error.
func (s *WebhookServiceImpl) HandleWebhook(ctx context.Context, body []byte) (result *primary.WebhookResult) {
	logger := s.logger.With("request_id", ctxutil.RequestIDFromContext(ctx))

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "webhook processing panicked", "panic", r, "stack", string(debug.Stack()))
			result = &primary.WebhookResult{
				Success: false,
				Outcome: primary.OutcomeFailed,
				Error:   fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	in, err := event.Parse(body)
	if err != nil {
		logger.WarnContext(ctx, "dropping malformed webhook", "error", err)
		return &primary.WebhookResult{Success: false, Outcome: primary.OutcomeMalformed, Error: err.Error()}
	}

	logger = logger.With("event_type", string(in.Type), "raw_type", in.RawType)
	receivedAt := s.now().UTC()

	if in.Account != nil {
		return s.handleAccountStatus(ctx, logger, in)
	}

	switch in.Type {
	case event.TypeConnectionAccepted:
		return s.handleAcceptance(ctx, logger, in, receivedAt)
	case event.TypeConnectionSent, event.TypeConnectionDeclined:
		return s.handleTransition(ctx, logger, in, receivedAt)
	case event.TypeMessageReceived:
		logger.InfoContext(ctx, "message received", "profile_url", in.Subject)
		return &primary.WebhookResult{
			Success: true, Outcome: primary.OutcomeIgnored, EventType: string(in.Type),
			Message: "message received",
		}
	default:
		logger.InfoContext(ctx, "ignoring unrecognized webhook event")
		return &primary.WebhookResult{
			Success: true, Outcome: primary.OutcomeIgnored, EventType: in.RawType,
			Message: fmt.Sprintf("unrecognized event type %q", in.RawType),
		}
	}
}

func (s *WebhookServiceImpl) handleAccountStatus(ctx context.Context, logger *slog.Logger, in *event.Inbound) *primary.WebhookResult {
	result := &primary.WebhookResult{EventType: string(event.TypeAccountStatus)}
	if in.Account.AccountID == "" {
		logger.WarnContext(ctx, "account status webhook without account_id")
		result.Outcome = primary.OutcomeMalformed
		result.Error = "missing account_id"
		return result
	}

	status := account.MapStatus(in.Account.Message)
	logger = logger.With("account_id", in.Account.AccountID, "status", string(status))

	_, err := s.accountRepo.UpdateStatusByAccountID(ctx, in.Account.AccountID, secondary.AccountStatusUpdate{
		IsActive:      account.IsActive(status),
		Status:        string(status),
		StatusMessage: in.Account.Message,
	})
	if errors.Is(err, secondary.ErrNotFound) {
		logger.InfoContext(ctx, "account status for unknown account")
		result.Success = true
		result.Outcome = primary.OutcomeIgnored
		result.Message = "no linked account " + in.Account.AccountID
		return result
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to update account status", "error", err)
		result.Outcome = primary.OutcomeFailed
		result.Error = err.Error()
		return result
	}

	logger.InfoContext(ctx, "account status updated", "message", in.Account.Message)
	result.Success = true
	result.Outcome = primary.OutcomeAccountUpdate
	result.Message = fmt.Sprintf("account %s is %s", in.Account.AccountID, status)
	return result
}

// subject prepares the normalized subject and consults the deduplicator.
// A non-nil result means processing stops.
func (s *WebhookServiceImpl) subject(ctx context.Context, logger *slog.Logger, in *event.Inbound, receivedAt time.Time) (string, bool, *slog.Logger, *primary.WebhookResult) {
	profileRef := profileurl.Normalize(in.Subject)
	if profileRef == "" {
		logger.WarnContext(ctx, "dropping webhook without subject profile reference")
		return "", false, logger, &primary.WebhookResult{
			Outcome: primary.OutcomeMalformed, EventType: string(in.Type),
			Error: "missing subject profile reference",
		}
	}

	fingerprint := event.Fingerprint(in.RawTimestamp, profileRef, receivedAt)
	logger = logger.With("profile_url", profileRef, "fingerprint", fingerprint)

	duplicate, err := s.fingerprints.SeenOrRecord(ctx, fingerprint)
	if err != nil {
		// Dedup is best effort; the transition guards still apply.
		logger.WarnContext(ctx, "fingerprint store unavailable", "error", err)
		duplicate = false
	}
	return profileRef, duplicate, logger, nil
}

func duplicateResult(t event.Type) *primary.WebhookResult {
	return &primary.WebhookResult{
		Success: true, Outcome: primary.OutcomeDuplicate, EventType: string(t),
		Reason: string(corelead.GuardDuplicate), Message: "duplicate, skipped",
	}
}

func nameSources(in *event.Inbound) corelead.NameSources {
	return corelead.NameSources{
		FullName:         in.FullName,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		PublicIdentifier: in.PublicIdentifier,
	}
}

// handleTransition applies the unconditional sent/declined transitions.
func (s *WebhookServiceImpl) handleTransition(ctx context.Context, logger *slog.Logger, in *event.Inbound, receivedAt time.Time) *primary.WebhookResult {
	profileRef, duplicate, logger, early := s.subject(ctx, logger, in, receivedAt)
	if early != nil {
		return early
	}
	if duplicate {
		logger.InfoContext(ctx, "duplicate webhook skipped")
		return duplicateResult(in.Type)
	}

	status, _ := corelead.StatusForEvent(in.Type)
	result := &primary.WebhookResult{EventType: string(in.Type)}

	match, err := s.matcher.Resolve(ctx, MatchRequest{ProfileRef: profileRef, Names: nameSources(in)})
	if err != nil {
		logger.ErrorContext(ctx, "lead lookup failed", "error", err)
		result.Outcome = primary.OutcomeFailed
		result.Error = err.Error()
		return result
	}
	if match.Kind == MatchNotEligible {
		logger.InfoContext(ctx, "no lead for profile")
		result.Success = true
		result.Outcome = primary.OutcomeNotEligible
		result.Message = "no matching lead"
		return result
	}

	lead := match.Lead
	result.LeadID = lead.ID
	stage := s.stages.Resolve(ctx, lead.OrganizationID, status)
	if err := s.leadRepo.UpdateStage(ctx, lead.ID, string(status), stage); err != nil {
		logger.ErrorContext(ctx, "failed to update lead stage", "lead_id", lead.ID, "error", err)
		result.Outcome = primary.OutcomeFailed
		result.Error = err.Error()
		return result
	}

	logger.InfoContext(ctx, "lead transitioned", "lead_id", lead.ID, "status", string(status), "stage", stage)
	result.Success = true
	result.Outcome = primary.OutcomeProcessed
	result.Message = fmt.Sprintf("lead moved to %s", status)
	return result
}

// handleAcceptance runs the guarded request_accepted transition and its side effects.
func (s *WebhookServiceImpl) handleAcceptance(ctx context.Context, logger *slog.Logger, in *event.Inbound, receivedAt time.Time) *primary.WebhookResult {
	profileRef, duplicate, logger, early := s.subject(ctx, logger, in, receivedAt)
	if early != nil {
		return early
	}
	result := &primary.WebhookResult{EventType: string(in.Type)}

	acceptance := corelead.AcceptanceContext{
		IsDuplicate: duplicate,
		Freshness: corelead.FreshnessContext{
			EventTime:  in.Timestamp,
			ReceivedAt: receivedAt,
			MaxAge:     s.config.MaxEventAge,
		},
	}
	admissible := !duplicate && corelead.CheckFreshness(acceptance.Freshness).Allowed

	// Duplicate and stale events may still find a lead, but never create one.
	match, err := s.matcher.Resolve(ctx, MatchRequest{
		ProfileRef:  profileRef,
		Names:       nameSources(in),
		AllowCreate: admissible,
	})
	if err != nil {
		logger.ErrorContext(ctx, "lead resolution failed", "error", err)
		result.Outcome = primary.OutcomeFailed
		result.Error = err.Error()
		return result
	}
	if match.Lead != nil {
		result.LeadID = match.Lead.ID
		logger = logger.With("lead_id", match.Lead.ID)
	}

	if admissible && match.Kind == MatchFound {
		if err := s.loadLeadGuardState(ctx, &acceptance, match.Lead, receivedAt); err != nil {
			logger.ErrorContext(ctx, "acceptance guard check failed", "error", err)
			result.Outcome = primary.OutcomeFailed
			result.Error = err.Error()
			return result
		}
	}

	if guard := corelead.CanApplyAcceptance(acceptance); !guard.Allowed {
		logger.InfoContext(ctx, "acceptance skipped", "code", string(guard.Code), "reason", guard.Reason, "lead_found", match.Lead != nil)
		result.Success = true
		result.Reason = string(guard.Code)
		switch guard.Code {
		case corelead.GuardDuplicate:
			result.Outcome = primary.OutcomeDuplicate
			result.Message = "duplicate, skipped"
		case corelead.GuardStaleEvent:
			result.Outcome = primary.OutcomeStale
			result.Message = "skipped, stale: " + guard.Reason
		default:
			result.Outcome = primary.OutcomeSkipped
			result.Message = "skipped: " + guard.Reason
		}
		return result
	}

	if match.Kind == MatchNotEligible {
		result.Success = true
		result.Outcome = primary.OutcomeNotEligible
		result.Message = "no lead and no enrichment record for profile"
		return result
	}

	lead := match.Lead
	if match.Kind == MatchFound {
		stage := s.stages.Resolve(ctx, lead.OrganizationID, corelead.StatusRequestAccepted)
		if err := s.leadRepo.UpdateStage(ctx, lead.ID, string(corelead.StatusRequestAccepted), stage); err != nil {
			logger.ErrorContext(ctx, "failed to mark lead accepted", "error", err)
			result.Outcome = primary.OutcomeFailed
			result.Error = err.Error()
			return result
		}
		lead.Status = string(corelead.StatusRequestAccepted)
		lead.Stage = stage
	}
	if lead.ProfileURL == "" {
		lead.ProfileURL = profileRef
	}

	cfg := s.executor.Config()
	plan := corelead.PlanSideEffects(corelead.SideEffectPlanContext{
		LeadID:          lead.ID,
		ProfileRef:      profileRef,
		CurrentPhone:    lead.Phone,
		AutoCallEnabled: cfg.AutoCallEnabled,
		BatchMode:       cfg.BatchMode,
	})
	result.SideEffects = s.executor.Execute(ctx, lead, plan)

	result.Success = true
	if match.Kind == MatchCreated {
		result.Outcome = primary.OutcomeLeadCreated
		result.Message = "lead created from enrichment cache and marked accepted"
	} else {
		result.Outcome = primary.OutcomeProcessed
		result.Message = "lead marked accepted"
	}
	logger.InfoContext(ctx, "acceptance processed", "outcome", string(result.Outcome), "side_effects", len(result.SideEffects))
	return result
}

// loadLeadGuardState fills the lead-dependent parts of the acceptance context:
// its stage and any acceptance call logged for it or its phone in the lookback window.
func (s *WebhookServiceImpl) loadLeadGuardState(ctx context.Context, acceptance *corelead.AcceptanceContext, lead *secondary.LeadRecord, receivedAt time.Time) error {
	since := receivedAt.Add(-s.config.CallLookback)
	marker := acceptanceCallMarker(lead.ID)

	hasRecent, err := s.callRepo.HasRecentCallForLead(ctx, lead.ID, since, marker)
	if err != nil {
		return err
	}
	if !hasRecent && lead.Phone != "" {
		hasRecent, err = s.callRepo.HasRecentCallForPhone(ctx, corelead.NormalizePhone(lead.Phone), since, marker)
		if err != nil {
			return err
		}
	}

	acceptance.LeadID = lead.ID
	acceptance.Status = lead.Status
	acceptance.Stage = lead.Stage
	acceptance.CallTriggeredStage = s.stages.Resolve(ctx, lead.OrganizationID, corelead.StatusCallTriggered)
	acceptance.HasRecentCall = hasRecent
	return nil
}

func acceptanceCallMarker(leadID string) secondary.CallMarker {
	return secondary.CallMarker{
		IdempotencyKey: corelead.CallIdempotencyKey(leadID),
		SourceTag:      corelead.CallSourceTag,
	}
}

// Ensure WebhookServiceImpl implements the interface
var _ primary.WebhookService = (*WebhookServiceImpl)(nil)
