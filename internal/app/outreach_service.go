package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/outreach/internal/ports/primary"
	"github.com/example/outreach/internal/ports/secondary"
)

// OutreachServiceImpl implements the OutreachService interface.
type OutreachServiceImpl struct {
	platforms secondary.PlatformRegistry
	logger    *slog.Logger
}

// NewOutreachService creates a new OutreachService with injected dependencies.
func NewOutreachService(platforms secondary.PlatformRegistry, logger *slog.Logger) *OutreachServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutreachServiceImpl{platforms: platforms, logger: logger}
}

func (s *OutreachServiceImpl) client(platform, profileRef string) (secondary.PlatformClient, error) {
	if strings.TrimSpace(profileRef) == "" {
		return nil, fmt.Errorf("%w: profile is required", primary.ErrInvalidRequest)
	}
	c, ok := s.platforms.Get(platform)
	if !ok {
		return nil, fmt.Errorf("%w: %q", primary.ErrUnsupportedPlatform, platform)
	}
	return c, nil
}

// Lookup fetches a profile on the given platform.
func (s *OutreachServiceImpl) Lookup(ctx context.Context, req primary.LookupRequest) (*primary.Profile, error) {
	c, err := s.client(req.Platform, req.ProfileRef)
	if err != nil {
		return nil, err
	}
	profile, err := c.Lookup(ctx, req.ProfileRef)
	if err != nil {
		return nil, err
	}
	return &primary.Profile{
		Platform:         c.Platform(),
		ProviderID:       profile.ProviderID,
		PublicIdentifier: profile.PublicIdentifier,
		ProfileURL:       profile.ProfileURL,
		FullName:         profile.FullName,
		Headline:         profile.Headline,
	}, nil
}

// Invite sends a connection request.
func (s *OutreachServiceImpl) Invite(ctx context.Context, req primary.InviteRequest) (*primary.ActionResponse, error) {
	c, err := s.client(req.Platform, req.ProfileRef)
	if err != nil {
		return nil, err
	}
	action, err := c.Invite(ctx, req.ProfileRef, req.Message)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "invitation sent", "platform", c.Platform(), "profile", req.ProfileRef)
	return &primary.ActionResponse{Platform: c.Platform(), ProfileRef: req.ProfileRef, ProviderID: action.ProviderID, Status: action.Status}, nil
}

// SendMessage sends a direct message.
func (s *OutreachServiceImpl) SendMessage(ctx context.Context, req primary.MessageRequest) (*primary.ActionResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", primary.ErrInvalidRequest)
	}
	c, err := s.client(req.Platform, req.ProfileRef)
	if err != nil {
		return nil, err
	}
	action, err := c.Message(ctx, req.ProfileRef, req.Text)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "message sent", "platform", c.Platform(), "profile", req.ProfileRef)
	return &primary.ActionResponse{Platform: c.Platform(), ProfileRef: req.ProfileRef, ProviderID: action.ProviderID, Status: action.Status}, nil
}

// Platforms lists the supported platform names.
func (s *OutreachServiceImpl) Platforms() []string {
	return s.platforms.Names()
}

// Ensure OutreachServiceImpl implements the interface
var _ primary.OutreachService = (*OutreachServiceImpl)(nil)
