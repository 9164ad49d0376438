// Package account contains the pure business logic for provider account links.
package account

import "strings"

// Status is the closed internal vocabulary for a provider account's state.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusStopped      Status = "stopped"
	StatusCheckpoint   Status = "checkpoint"
	StatusConnecting   Status = "connecting"
	StatusDisconnected Status = "disconnected"
	StatusUnknown      Status = "unknown"
)

// knownMessages maps exact provider status strings (uppercased) to internal statuses.
var knownMessages = map[string]Status{
	"OK":               StatusConnected,
	"CREATION_SUCCESS": StatusConnected,
	"RECONNECTED":      StatusConnected,
	"SYNC_SUCCESS":     StatusConnected,
	"ERROR":            StatusStopped,
	"STOPPED":          StatusStopped,
	"CREDENTIALS":      StatusCheckpoint,
	"CHECKPOINT":       StatusCheckpoint,
	"CONNECTING":       StatusConnecting,
	"DELETED":          StatusDisconnected,
	"DISCONNECTED":     StatusDisconnected,
}

// heuristics are substring fallbacks, evaluated in order against the lowercased message.
// Negative phrasings are tested first: "disconnected" contains "connected" and
// "inactive" contains "active".
var heuristics = []struct {
	fragments []string
	status    Status
}{
	{[]string{"disconnected", "stopped", "inactive", "not active"}, StatusDisconnected},
	{[]string{"connected", "active"}, StatusConnected},
	{[]string{"checkpoint", "credential"}, StatusCheckpoint},
}

// MapStatus maps a free-text provider status message to an internal status.
// Exact matches win; substring heuristics apply next; anything else is StatusUnknown.
func MapStatus(message string) Status {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return StatusUnknown
	}
	if s, ok := knownMessages[strings.ToUpper(trimmed)]; ok {
		return s
	}

	lower := strings.ToLower(trimmed)
	for _, h := range heuristics {
		for _, fragment := range h.fragments {
			if strings.Contains(lower, fragment) {
				return h.status
			}
		}
	}
	return StatusUnknown
}

// IsActive reports whether an account in the given status can send outreach.
func IsActive(s Status) bool {
	return s == StatusConnected
}
