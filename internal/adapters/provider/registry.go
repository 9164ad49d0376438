package provider

import (
	"sort"
	"strings"

	"github.com/example/outreach/internal/ports/secondary"
)

// Registry selects a platform client by platform name.
type Registry struct {
	clients map[string]secondary.PlatformClient
}

// NewRegistry indexes clients by their Platform().
func NewRegistry(clients ...secondary.PlatformClient) *Registry {
	r := &Registry{clients: make(map[string]secondary.PlatformClient, len(clients))}
	for _, c := range clients {
		r.clients[c.Platform()] = c
	}
	return r
}

// NewDefaultRegistry registers every supported platform on one transport.
func NewDefaultRegistry(client *Client) *Registry {
	return NewRegistry(
		NewLinkedIn(client),
		NewInstagram(client),
		NewFacebook(client),
		NewWhatsApp(client),
	)
}

// Get returns the client for a platform name, case-insensitively.
func (r *Registry) Get(platform string) (secondary.PlatformClient, bool) {
	c, ok := r.clients[strings.ToLower(strings.TrimSpace(platform))]
	return c, ok
}

// Names lists the registered platforms in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ensure Registry implements the interface
var _ secondary.PlatformRegistry = (*Registry)(nil)
