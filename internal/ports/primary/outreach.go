package primary

import (
	"context"
	"errors"
)

// ErrUnsupportedPlatform is returned when no client is registered for a platform.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// ErrInvalidRequest is returned when an action request fails validation.
var ErrInvalidRequest = errors.New("invalid request")

// OutreachService defines the primary port for direct outbound actions.
type OutreachService interface {
	// Lookup fetches a profile on the given platform.
	Lookup(ctx context.Context, req LookupRequest) (*Profile, error)

	// Invite sends a connection request / invitation.
	Invite(ctx context.Context, req InviteRequest) (*ActionResponse, error)

	// SendMessage sends a direct message.
	SendMessage(ctx context.Context, req MessageRequest) (*ActionResponse, error)

	// Platforms lists the supported platform names.
	Platforms() []string
}

// LookupRequest contains parameters for a profile lookup.
type LookupRequest struct {
	Platform   string `json:"-"`
	ProfileRef string `json:"profile"`
}

// InviteRequest contains parameters for an invitation.
type InviteRequest struct {
	Platform   string `json:"-"`
	ProfileRef string `json:"profile"`
	Message    string `json:"message,omitempty"`
}

// MessageRequest contains parameters for a direct message.
type MessageRequest struct {
	Platform   string `json:"-"`
	ProfileRef string `json:"profile"`
	Text       string `json:"text"`
}

// Profile is a looked-up platform profile.
type Profile struct {
	Platform         string `json:"platform"`
	ProviderID       string `json:"provider_id,omitempty"`
	PublicIdentifier string `json:"public_identifier,omitempty"`
	ProfileURL       string `json:"profile_url,omitempty"`
	FullName         string `json:"full_name,omitempty"`
	Headline         string `json:"headline,omitempty"`
}

// ActionResponse reports the result of an outbound action.
type ActionResponse struct {
	Platform   string `json:"platform"`
	ProfileRef string `json:"profile"`
	ProviderID string `json:"provider_id,omitempty"`
	Status     string `json:"status"`
}
