package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/outreach/internal/core/lead"
	"github.com/example/outreach/internal/core/profileurl"
	"github.com/example/outreach/internal/ports/secondary"
)

// WhatsAppClient addresses contacts by phone number, taken from a wa.me link or
// given directly. Numbers have no canonical profile URL.
type WhatsAppClient struct {
	client *Client
}

// NewWhatsApp creates the WhatsApp client.
func NewWhatsApp(client *Client) *WhatsAppClient {
	return &WhatsAppClient{client: client}
}

func (c *WhatsAppClient) Platform() string { return string(profileurl.PlatformWhatsApp) }

func (c *WhatsAppClient) identifier(ref string) (string, error) {
	phone := lead.NormalizePhone(strings.TrimPrefix(profileurl.StripSchemeAndWWW(ref), "wa.me/"))
	phone = strings.TrimPrefix(phone, "+")
	if !lead.IsDialable(phone) {
		return "", fmt.Errorf("whatsapp: %q is not a phone number", ref)
	}
	return phone, nil
}

func (c *WhatsAppClient) canonicalURL(string) string { return "" }

func (c *WhatsAppClient) Lookup(ctx context.Context, profileRef string) (*secondary.PlatformProfile, error) {
	return lookup(ctx, c.client, c, profileRef)
}

func (c *WhatsAppClient) Invite(ctx context.Context, profileRef, text string) (*secondary.PlatformAction, error) {
	return invite(ctx, c.client, c, profileRef, text)
}

func (c *WhatsAppClient) Message(ctx context.Context, profileRef, text string) (*secondary.PlatformAction, error) {
	return message(ctx, c.client, c, profileRef, text)
}

var _ secondary.PlatformClient = (*WhatsAppClient)(nil)
