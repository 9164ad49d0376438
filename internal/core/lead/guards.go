package lead

import (
	"fmt"
	"time"
)

// DefaultMaxEventAge is how old an acceptance event may be before it is treated as stale.
const DefaultMaxEventAge = 24 * time.Hour

// DefaultCallLookback is the trailing window in which a logged acceptance call
// suppresses another one.
const DefaultCallLookback = 7 * 24 * time.Hour

// GuardCode is a machine-readable reason a guard refused a transition.
type GuardCode string

const (
	GuardDuplicate            GuardCode = "duplicate"
	GuardStaleEvent           GuardCode = "stale_event"
	GuardAlreadyCallTriggered GuardCode = "already_call_triggered"
	GuardRecentCall           GuardCode = "recent_call_exists"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Code    GuardCode
	Reason  string
}

// FreshnessContext provides context for the event-age guard.
type FreshnessContext struct {
	EventTime  *time.Time // nil when the payload carried no timestamp
	ReceivedAt time.Time
	MaxAge     time.Duration // zero means DefaultMaxEventAge
}

// AcceptanceContext provides context for the request_accepted transition guards.
type AcceptanceContext struct {
	LeadID             string
	IsDuplicate        bool
	Freshness          FreshnessContext
	Status             string
	Stage              string
	CallTriggeredStage string // organization-resolved stage key for call_triggered
	HasRecentCall      bool
}

// CheckFreshness evaluates whether an event is recent enough to mutate state.
// Rules:
// - Events without a timestamp are fresh
// - Events older than MaxAge relative to receipt are stale
func CheckFreshness(ctx FreshnessContext) GuardResult {
	if ctx.EventTime == nil {
		return GuardResult{Allowed: true}
	}
	maxAge := ctx.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxEventAge
	}
	age := ctx.ReceivedAt.Sub(*ctx.EventTime)
	if age > maxAge {
		return GuardResult{
			Allowed: false,
			Code:    GuardStaleEvent,
			Reason:  fmt.Sprintf("event is %s old (limit %s)", age.Round(time.Minute), maxAge),
		}
	}
	return GuardResult{Allowed: true}
}

// CanApplyAcceptance evaluates whether a lead may move to request_accepted and
// have its side effects fired.
// Rules, in order:
// 1. Event must not be a duplicate
// 2. Event must not be stale
// 3. Lead must not already be in the call-triggered stage
// 4. No acceptance call may be logged for the lead or its phone in the lookback window
func CanApplyAcceptance(ctx AcceptanceContext) GuardResult {
	if ctx.IsDuplicate {
		return GuardResult{
			Allowed: false,
			Code:    GuardDuplicate,
			Reason:  "event already processed",
		}
	}

	if fresh := CheckFreshness(ctx.Freshness); !fresh.Allowed {
		return fresh
	}

	if IsCallTriggered(ctx.Status, ctx.Stage, ctx.CallTriggeredStage) {
		return GuardResult{
			Allowed: false,
			Code:    GuardAlreadyCallTriggered,
			Reason:  fmt.Sprintf("lead %s already has a call triggered", ctx.LeadID),
		}
	}

	if ctx.HasRecentCall {
		return GuardResult{
			Allowed: false,
			Code:    GuardRecentCall,
			Reason:  fmt.Sprintf("lead %s was already called from a connection acceptance in the lookback window", ctx.LeadID),
		}
	}

	return GuardResult{Allowed: true}
}
