package provider

import (
	"context"
	"fmt"

	"github.com/example/outreach/internal/core/profileurl"
	"github.com/example/outreach/internal/ports/secondary"
)

// FacebookClient accepts both vanity names and numeric profile.php IDs.
type FacebookClient struct {
	client *Client
}

// NewFacebook creates the Facebook client.
func NewFacebook(client *Client) *FacebookClient {
	return &FacebookClient{client: client}
}

func (c *FacebookClient) Platform() string { return string(profileurl.PlatformFacebook) }

func (c *FacebookClient) identifier(ref string) (string, error) {
	if id := profileurl.PublicIdentifier(ref); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("facebook: no profile id in %q", ref)
}

func (c *FacebookClient) canonicalURL(id string) string {
	return "https://www.facebook.com/" + id
}

func (c *FacebookClient) Lookup(ctx context.Context, profileRef string) (*secondary.PlatformProfile, error) {
	return lookup(ctx, c.client, c, profileRef)
}

func (c *FacebookClient) Invite(ctx context.Context, profileRef, text string) (*secondary.PlatformAction, error) {
	return invite(ctx, c.client, c, profileRef, text)
}

func (c *FacebookClient) Message(ctx context.Context, profileRef, text string) (*secondary.PlatformAction, error) {
	return message(ctx, c.client, c, profileRef, text)
}

var _ secondary.PlatformClient = (*FacebookClient)(nil)
