// Package event classifies inbound provider webhook payloads.
// This is part of the Functional Core - payload decoding and classification only, no I/O.
package event

import "strings"

// Type is the logical event type after alias resolution.
type Type string

const (
	TypeConnectionAccepted Type = "connection_accepted"
	TypeConnectionSent     Type = "connection_sent"
	TypeConnectionDeclined Type = "connection_declined"
	TypeAccountStatus      Type = "account_status"
	TypeMessageReceived    Type = "message_received"
	TypeUnknown            Type = "unknown"
)

// aliases maps every historical or alternate spelling to its logical type.
// Order within each entry is documentation only; lookup is exact after lowercasing.
var aliases = []struct {
	logical Type
	names   []string
}{
	{TypeConnectionAccepted, []string{"new_relation", "connection_accepted", "invitation_accepted", "connection_request_accepted"}},
	{TypeConnectionSent, []string{"connection_request_sent", "connection_sent", "invitation_sent", "new_invitation"}},
	{TypeConnectionDeclined, []string{"connection_request_declined", "connection_declined", "invitation_declined", "invitation_rejected"}},
	{TypeMessageReceived, []string{"message_received", "new_message", "message.received"}},
	{TypeAccountStatus, []string{"account_status", "account_status_changed", "account.status"}},
}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]Type {
	index := make(map[string]Type)
	for _, entry := range aliases {
		for _, name := range entry.names {
			index[name] = entry.logical
		}
	}
	return index
}

// Classify resolves a raw event name to its logical type.
// Unrecognized names resolve to TypeUnknown.
func Classify(name string) Type {
	key := strings.ToLower(strings.TrimSpace(name))
	if t, ok := aliasIndex[key]; ok {
		return t
	}
	return TypeUnknown
}
