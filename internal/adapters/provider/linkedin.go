package provider

import (
	"context"
	"fmt"

	"github.com/example/outreach/internal/core/profileurl"
	"github.com/example/outreach/internal/ports/secondary"
)

// LinkedInClient addresses LinkedIn members by their /in/ slug.
type LinkedInClient struct {
	client *Client
}

// NewLinkedIn creates the LinkedIn client.
func NewLinkedIn(client *Client) *LinkedInClient {
	return &LinkedInClient{client: client}
}

func (c *LinkedInClient) Platform() string { return string(profileurl.PlatformLinkedIn) }

func (c *LinkedInClient) identifier(ref string) (string, error) {
	if id := profileurl.PublicIdentifier(ref); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("linkedin: no public identifier in %q", ref)
}

func (c *LinkedInClient) canonicalURL(id string) string {
	return "https://www.linkedin.com/in/" + id
}

func (c *LinkedInClient) Lookup(ctx context.Context, profileRef string) (*secondary.PlatformProfile, error) {
	return lookup(ctx, c.client, c, profileRef)
}

func (c *LinkedInClient) Invite(ctx context.Context, profileRef, text string) (*secondary.PlatformAction, error) {
	return invite(ctx, c.client, c, profileRef, text)
}

func (c *LinkedInClient) Message(ctx context.Context, profileRef, text string) (*secondary.PlatformAction, error) {
	return message(ctx, c.client, c, profileRef, text)
}

var _ secondary.PlatformClient = (*LinkedInClient)(nil)
