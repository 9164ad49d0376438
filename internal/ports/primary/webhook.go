// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import "context"

// WebhookService defines the primary port for inbound provider webhooks.
type WebhookService interface {
	// HandleWebhook processes one raw webhook body.
	// It never fails: every outcome, including internal errors, is reported in the result
	// so the transport can always acknowledge the sender.
	HandleWebhook(ctx context.Context, body []byte) *WebhookResult
}

// Outcome is a machine-readable summary of what a webhook did.
type Outcome string

const (
	OutcomeProcessed     Outcome = "processed"
	OutcomeLeadCreated   Outcome = "lead_created"
	OutcomeDuplicate     Outcome = "duplicate"
	OutcomeStale         Outcome = "stale_event"
	OutcomeSkipped       Outcome = "skipped"
	OutcomeNotEligible   Outcome = "not_eligible"
	OutcomeIgnored       Outcome = "ignored"
	OutcomeAccountUpdate Outcome = "account_updated"
	OutcomeMalformed     Outcome = "malformed"
	OutcomeFailed        Outcome = "failed"
)

// WebhookResult is the acknowledgement body returned to the webhook sender.
type WebhookResult struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message,omitempty"`
	Error       string             `json:"error,omitempty"`
	Outcome     Outcome            `json:"outcome"`
	EventType   string             `json:"event_type,omitempty"`
	LeadID      string             `json:"lead_id,omitempty"`
	Reason      string             `json:"reason,omitempty"`
	SideEffects []SideEffectResult `json:"side_effects,omitempty"`
}

// SideEffectResult reports the outcome of one post-acceptance step.
type SideEffectResult struct {
	Step    string `json:"step"`
	Status  string `json:"status"`
	Source  string `json:"source,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Success bool   `json:"success"`
}

// Phone reveal step statuses.
const (
	PhoneSkippedHasPhone = "skipped_has_phone"
	PhoneRevealed        = "revealed"
	PhoneNotImplemented  = "not_implemented"
	PhoneNotFound        = "not_found"
	PhoneFailed          = "failed"

	PhoneSourceCache = "fromCache"
)

// Auto-call step statuses.
const (
	CallDisabled     = "disabled"
	CallQueuedBatch  = "queued_batch"
	CallNoPhone      = "no_phone"
	CallInvalidPhone = "invalid_phone"
	CallNoAgent      = "no_agent"
	CallRecentExists = "recent_call_exists"
	CallPlaced       = "placed"
	CallFailed       = "failed"
)
