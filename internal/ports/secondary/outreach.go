// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// LeadRepository defines the secondary port for lead persistence.
type LeadRepository interface {
	// FindByProfileReference returns the best live lead whose profile reference matches
	// exactly, by the scheme/www-stripped form, or by substring, in that preference order.
	// Returns ErrNotFound when nothing matches.
	FindByProfileReference(ctx context.Context, normalizedRef string) (*LeadRecord, error)

	// CreateWithProfile persists a lead and its profile reference as one unit.
	CreateWithProfile(ctx context.Context, lead *LeadRecord, profile *LeadProfileRecord) error

	// GetByID retrieves a lead by its ID.
	GetByID(ctx context.Context, id string) (*LeadRecord, error)

	// UpdateStage sets status and stage and bumps updated_at.
	UpdateStage(ctx context.Context, id, status, stage string) error

	// UpdatePhoneIfEmpty stores a phone number only when the lead has none.
	// Returns false when a phone was already present.
	UpdatePhoneIfEmpty(ctx context.Context, id, phone string) (bool, error)
}

// LeadRecord represents a lead as stored in persistence.
type LeadRecord struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Company        string
	Title          string
	Status         string
	Stage          string
	OrganizationID string
	AgentID        string // per-lead calling agent override
	ProfileURL     string // matched profile reference, filled on lookup
	IsDeleted      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LeadProfileRecord links a lead to one external profile reference.
type LeadProfileRecord struct {
	ID         string
	LeadID     string
	Platform   string
	ProfileURL string
	CreatedAt  time.Time
}

// EnrichmentCache defines the secondary port for the employee/enrichment cache.
type EnrichmentCache interface {
	// FindByProfileReference matches exactly or by the scheme/www-stripped form.
	// Returns ErrNotFound on a miss.
	FindByProfileReference(ctx context.Context, normalizedRef string) (*EnrichmentRecord, error)
}

// EnrichmentRecord represents an enrichment cache entry.
type EnrichmentRecord struct {
	ID         string
	ProfileURL string
	FullName   string
	FirstName  string
	LastName   string
	Phone      string
	Email      string
	Company    string
	Title      string
	UpdatedAt  time.Time
}

// CallHistoryRepository defines the secondary port for outbound call records.
type CallHistoryRepository interface {
	// HasRecentCallForLead reports whether a call for the lead, created at or after since,
	// carries the idempotency key or mentions the source tag in its context.
	HasRecentCallForLead(ctx context.Context, leadID string, since time.Time, q CallMarker) (bool, error)

	// HasRecentCallForPhone is HasRecentCallForLead keyed by dialed number.
	HasRecentCallForPhone(ctx context.Context, phone string, since time.Time, q CallMarker) (bool, error)

	// Record persists a call attempt.
	Record(ctx context.Context, call *CallRecord) error
}

// CallMarker identifies calls that came from one flow.
type CallMarker struct {
	IdempotencyKey string
	SourceTag      string
}

// CallRecord represents a logged outbound call.
type CallRecord struct {
	ID             string
	LeadID         string
	PhoneNumber    string
	AgentID        string
	Context        string
	SourceTag      string
	IdempotencyKey string
	Status         string
	ProviderCallID string
	CreatedAt      time.Time
}

// OrganizationRepository defines the secondary port for organization settings and stages.
type OrganizationRepository interface {
	// FindStageKeyByNameFragment returns the key of the first stage (by position) whose
	// key or name contains fragment, case-insensitively. Returns ErrNotFound on a miss.
	FindStageKeyByNameFragment(ctx context.Context, organizationID, fragment string) (string, error)

	// DefaultAgentID returns the organization's default calling agent, or "".
	DefaultAgentID(ctx context.Context, organizationID string) (string, error)
}

// AccountLinkRepository defines the secondary port for provider account registrations.
type AccountLinkRepository interface {
	// UpdateStatusByAccountID updates a link's status. Returns ErrNotFound when no link
	// carries the account ID.
	UpdateStatusByAccountID(ctx context.Context, accountID string, update AccountStatusUpdate) (*AccountLinkRecord, error)

	// FindActiveOrganizationID returns an organization from any active link, or "".
	FindActiveOrganizationID(ctx context.Context) (string, error)

	// Create persists a new account link.
	Create(ctx context.Context, link *AccountLinkRecord) error
}

// AccountStatusUpdate carries the mutable account link fields.
type AccountStatusUpdate struct {
	IsActive      bool
	Status        string
	StatusMessage string
}

// AccountLinkRecord represents a provider account registration.
type AccountLinkRecord struct {
	ID             string
	OrganizationID string
	Platform       string
	AccountID      string
	Status         string
	StatusMessage  string
	IsActive       bool
	UpdatedAt      time.Time
}

// FingerprintStore defines the secondary port for webhook event deduplication.
type FingerprintStore interface {
	// SeenOrRecord reports whether the fingerprint was already recorded, recording it if not.
	SeenOrRecord(ctx context.Context, fingerprint string) (bool, error)
}

// CallPlacer defines the secondary port for the external call-placement service.
type CallPlacer interface {
	PlaceCall(ctx context.Context, req CallRequest) (*CallResponse, error)
}

// CallRequest describes one outbound call.
type CallRequest struct {
	AgentID  string `json:"agent_id"`
	ToNumber string `json:"to_number"`
	LeadName string `json:"lead_name"`
	Context  string `json:"context"`
	LeadID   string `json:"lead_id"`
}

// CallResponse is the call service's reply.
type CallResponse struct {
	Success bool
	CallID  string
	Message string
}

// PlatformClient defines the secondary port for one platform's outbound actions.
type PlatformClient interface {
	Platform() string
	Lookup(ctx context.Context, profileRef string) (*PlatformProfile, error)
	Invite(ctx context.Context, profileRef, message string) (*PlatformAction, error)
	Message(ctx context.Context, profileRef, text string) (*PlatformAction, error)
}

// PlatformProfile is a profile as reported by the upstream provider.
type PlatformProfile struct {
	ProviderID       string
	PublicIdentifier string
	ProfileURL       string
	FullName         string
	Headline         string
}

// PlatformAction is the provider's acknowledgement of an outbound action.
type PlatformAction struct {
	ProviderID string
	Status     string
}

// PlatformRegistry selects a PlatformClient by platform name.
type PlatformRegistry interface {
	Get(platform string) (PlatformClient, bool)
	Names() []string
}
