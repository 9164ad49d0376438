package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/outreach/internal/ports/primary"
	"github.com/example/outreach/internal/ports/secondary"
)

func newTestOutreachService() (*OutreachServiceImpl, *mockPlatformClient) {
	linkedin := &mockPlatformClient{platform: "linkedin"}
	registry := &mockPlatformRegistry{clients: map[string]secondary.PlatformClient{"linkedin": linkedin}}
	return NewOutreachService(registry, discardLogger()), linkedin
}

func TestOutreachService_Lookup(t *testing.T) {
	svc, _ := newTestOutreachService()

	profile, err := svc.Lookup(context.Background(), primary.LookupRequest{Platform: "linkedin", ProfileRef: janeURL})

	require.NoError(t, err)
	assert.Equal(t, "linkedin", profile.Platform)
	assert.Equal(t, "prov-1", profile.ProviderID)
	assert.Equal(t, "Jane Roe", profile.FullName)
}

func TestOutreachService_InviteAndMessage(t *testing.T) {
	svc, client := newTestOutreachService()

	invite, err := svc.Invite(context.Background(), primary.InviteRequest{Platform: "linkedin", ProfileRef: janeURL, Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "sent", invite.Status)

	msg, err := svc.SendMessage(context.Background(), primary.MessageRequest{Platform: "linkedin", ProfileRef: janeURL, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", msg.ProviderID)

	assert.Equal(t, []string{janeURL}, client.invites)
	assert.Equal(t, []string{"hello"}, client.messages)
}

func TestOutreachService_Errors(t *testing.T) {
	svc, client := newTestOutreachService()
	ctx := context.Background()

	_, err := svc.Lookup(ctx, primary.LookupRequest{Platform: "myspace", ProfileRef: janeURL})
	assert.ErrorIs(t, err, primary.ErrUnsupportedPlatform)

	_, err = svc.Invite(ctx, primary.InviteRequest{Platform: "linkedin"})
	assert.ErrorIs(t, err, primary.ErrInvalidRequest)

	_, err = svc.SendMessage(ctx, primary.MessageRequest{Platform: "linkedin", ProfileRef: janeURL, Text: "  "})
	assert.ErrorIs(t, err, primary.ErrInvalidRequest)

	client.err = errBoom
	_, err = svc.Lookup(ctx, primary.LookupRequest{Platform: "linkedin", ProfileRef: janeURL})
	assert.ErrorIs(t, err, errBoom)
}

func TestOutreachService_Platforms(t *testing.T) {
	svc, _ := newTestOutreachService()
	assert.Equal(t, []string{"linkedin"}, svc.Platforms())
}
