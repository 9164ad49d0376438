package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/outreach/internal/core/profileurl"
	"github.com/example/outreach/internal/ports/secondary"
)

// InstagramClient addresses Instagram accounts by handle, given with or without "@".
type InstagramClient struct {
	client *Client
}

// NewInstagram creates the Instagram client.
func NewInstagram(client *Client) *InstagramClient {
	return &InstagramClient{client: client}
}

func (c *InstagramClient) Platform() string { return string(profileurl.PlatformInstagram) }

func (c *InstagramClient) identifier(ref string) (string, error) {
	if id := strings.TrimPrefix(profileurl.PublicIdentifier(ref), "@"); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("instagram: no handle in %q", ref)
}

func (c *InstagramClient) canonicalURL(id string) string {
	return "https://www.instagram.com/" + id
}

func (c *InstagramClient) Lookup(ctx context.Context, profileRef string) (*secondary.PlatformProfile, error) {
	return lookup(ctx, c.client, c, profileRef)
}

func (c *InstagramClient) Invite(ctx context.Context, profileRef, text string) (*secondary.PlatformAction, error) {
	return invite(ctx, c.client, c, profileRef, text)
}

func (c *InstagramClient) Message(ctx context.Context, profileRef, text string) (*secondary.PlatformAction, error) {
	return message(ctx, c.client, c, profileRef, text)
}

var _ secondary.PlatformClient = (*InstagramClient)(nil)
