// Package lead contains the pure business logic for lead outreach state.
// This is part of the Functional Core - no I/O, only pure functions.
package lead

import "github.com/example/outreach/internal/core/event"

// Status represents the outreach status of a lead.
//
//	new → request_sent → request_accepted → call_triggered
//	request_sent | request_accepted → request_declined
type Status string

const (
	StatusNew             Status = "new"
	StatusRequestSent     Status = "request_sent"
	StatusRequestAccepted Status = "request_accepted"
	StatusRequestDeclined Status = "request_declined"
	StatusCallTriggered   Status = "call_triggered"
)

// StageTarget describes how a status maps onto an organization's pipeline stages.
// Fragment is matched against stage keys and names; Fallback is used when no
// organizational stage matches.
type StageTarget struct {
	Fragment string
	Fallback string
}

var stageTargets = map[Status]StageTarget{
	StatusRequestSent:     {Fragment: "sent", Fallback: string(StatusRequestSent)},
	StatusRequestAccepted: {Fragment: "accepted", Fallback: string(StatusRequestAccepted)},
	StatusRequestDeclined: {Fragment: "declined", Fallback: string(StatusRequestDeclined)},
	StatusCallTriggered:   {Fragment: "triggered", Fallback: string(StatusCallTriggered)},
}

// StageTargetFor returns the stage lookup target for a status.
func StageTargetFor(s Status) (StageTarget, bool) {
	t, ok := stageTargets[s]
	return t, ok
}

// ResolveStageKey picks the organization's stage key when one was found,
// otherwise the target's fallback.
func ResolveStageKey(target StageTarget, orgKey string, found bool) string {
	if found && orgKey != "" {
		return orgKey
	}
	return target.Fallback
}

// StatusForEvent maps a lead-affecting event to the status it moves the lead to.
func StatusForEvent(t event.Type) (Status, bool) {
	switch t {
	case event.TypeConnectionSent:
		return StatusRequestSent, true
	case event.TypeConnectionDeclined:
		return StatusRequestDeclined, true
	case event.TypeConnectionAccepted:
		return StatusRequestAccepted, true
	default:
		return "", false
	}
}

// IsCallTriggered reports whether the lead already reached the call-triggered state,
// either by status or by the organization's resolved call-triggered stage key.
func IsCallTriggered(status, stage, callTriggeredStage string) bool {
	if Status(status) == StatusCallTriggered {
		return true
	}
	return stage != "" && stage == callTriggeredStage
}
