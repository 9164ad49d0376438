package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/outreach/internal/core/profileurl"
	"github.com/example/outreach/internal/ports/secondary"
)

// platformRules is what differs between platforms; the provider flow is shared.
type platformRules interface {
	Platform() string
	// identifier turns a profile reference into the identifier the provider expects.
	identifier(ref string) (string, error)
	// canonicalURL builds a profile URL for an identifier, or "" when the platform has none.
	canonicalURL(id string) string
}

func lookup(ctx context.Context, client *Client, rules platformRules, profileRef string) (*secondary.PlatformProfile, error) {
	id, err := rules.identifier(profileRef)
	if err != nil {
		return nil, err
	}
	user, err := client.getUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s lookup: %w", rules.Platform(), err)
	}

	name := strings.TrimSpace(user.FullName)
	if name == "" {
		name = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}
	publicID := user.PublicIdentifier
	if publicID == "" {
		publicID = id
	}
	profileURL := user.ProfileURL
	if profileURL == "" {
		profileURL = rules.canonicalURL(publicID)
	}

	return &secondary.PlatformProfile{
		ProviderID:       user.ProviderID,
		PublicIdentifier: publicID,
		ProfileURL:       profileurl.Normalize(profileURL),
		FullName:         name,
		Headline:         user.Headline,
	}, nil
}

func invite(ctx context.Context, client *Client, rules platformRules, profileRef, text string) (*secondary.PlatformAction, error) {
	providerID, err := resolveProviderID(ctx, client, rules, profileRef)
	if err != nil {
		return nil, err
	}
	resp, err := client.invite(ctx, providerID, text)
	if err != nil {
		return nil, fmt.Errorf("%s invite: %w", rules.Platform(), err)
	}
	return &secondary.PlatformAction{ProviderID: firstNonEmpty(resp.InvitationID, providerID), Status: "sent"}, nil
}

func message(ctx context.Context, client *Client, rules platformRules, profileRef, text string) (*secondary.PlatformAction, error) {
	providerID, err := resolveProviderID(ctx, client, rules, profileRef)
	if err != nil {
		return nil, err
	}
	resp, err := client.startChat(ctx, providerID, text)
	if err != nil {
		return nil, fmt.Errorf("%s message: %w", rules.Platform(), err)
	}
	return &secondary.PlatformAction{ProviderID: firstNonEmpty(resp.MessageID, resp.ChatID), Status: "sent"}, nil
}

// resolveProviderID looks the profile up first: the provider addresses users by its own IDs.
func resolveProviderID(ctx context.Context, client *Client, rules platformRules, profileRef string) (string, error) {
	profile, err := lookup(ctx, client, rules, profileRef)
	if err != nil {
		return "", err
	}
	if profile.ProviderID == "" {
		return "", fmt.Errorf("%s: provider returned no id for %q", rules.Platform(), profileRef)
	}
	return profile.ProviderID, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
