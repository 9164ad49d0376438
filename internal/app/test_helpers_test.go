package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/outreach/internal/core/profileurl"
	"github.com/example/outreach/internal/ports/secondary"
)

// ============================================================================
// Logger
// ============================================================================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ============================================================================
// Mock FingerprintStore
// ============================================================================

var _ secondary.FingerprintStore = (*mockFingerprintStore)(nil)

type mockFingerprintStore struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newMockFingerprintStore() *mockFingerprintStore {
	return &mockFingerprintStore{seen: make(map[string]bool)}
}

func (m *mockFingerprintStore) SeenOrRecord(ctx context.Context, fingerprint string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if m.seen[fingerprint] {
		return true, nil
	}
	m.seen[fingerprint] = true
	return false, nil
}

// ============================================================================
// Mock LeadRepository
// ============================================================================

var _ secondary.LeadRepository = (*mockLeadRepository)(nil)

type stageUpdate struct {
	LeadID string
	Status string
	Stage  string
}

type mockLeadRepository struct {
	mu           sync.Mutex
	leads        map[string]*secondary.LeadRecord
	profiles     map[string]string // profile url -> lead id
	created      []*secondary.LeadRecord
	stageUpdates []stageUpdate
	phoneUpdates int

	findErr     error
	findPanic   bool
	createErr   error
	updateErr   error
	phoneRacing string // stored by a "concurrent writer" right before UpdatePhoneIfEmpty
}

func newMockLeadRepository() *mockLeadRepository {
	return &mockLeadRepository{
		leads:    make(map[string]*secondary.LeadRecord),
		profiles: make(map[string]string),
	}
}

func (m *mockLeadRepository) addLead(lead *secondary.LeadRecord, profileURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *lead
	m.leads[lead.ID] = &copied
	m.profiles[profileURL] = lead.ID
}

func (m *mockLeadRepository) FindByProfileReference(ctx context.Context, normalizedRef string) (*secondary.LeadRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findPanic {
		panic("lead store exploded")
	}
	if m.findErr != nil {
		return nil, m.findErr
	}
	want := strings.ToLower(profileurl.StripSchemeAndWWW(normalizedRef))
	for url, id := range m.profiles {
		lead := m.leads[id]
		if lead == nil || lead.IsDeleted {
			continue
		}
		if url == normalizedRef || strings.ToLower(profileurl.StripSchemeAndWWW(url)) == want {
			copied := *lead
			copied.ProfileURL = url
			return &copied, nil
		}
	}
	return nil, secondary.ErrNotFound
}

func (m *mockLeadRepository) CreateWithProfile(ctx context.Context, lead *secondary.LeadRecord, profile *secondary.LeadProfileRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	copied := *lead
	m.leads[lead.ID] = &copied
	m.profiles[profile.ProfileURL] = lead.ID
	m.created = append(m.created, &copied)
	return nil
}

func (m *mockLeadRepository) GetByID(ctx context.Context, id string) (*secondary.LeadRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return nil, fmt.Errorf("lead %s: %w", id, secondary.ErrNotFound)
	}
	copied := *lead
	return &copied, nil
}

func (m *mockLeadRepository) UpdateStage(ctx context.Context, id, status, stage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	lead, ok := m.leads[id]
	if !ok {
		return fmt.Errorf("lead %s: %w", id, secondary.ErrNotFound)
	}
	lead.Status = status
	lead.Stage = stage
	m.stageUpdates = append(m.stageUpdates, stageUpdate{LeadID: id, Status: status, Stage: stage})
	return nil
}

func (m *mockLeadRepository) UpdatePhoneIfEmpty(ctx context.Context, id, phone string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return false, fmt.Errorf("lead %s: %w", id, secondary.ErrNotFound)
	}
	if m.phoneRacing != "" && lead.Phone == "" {
		lead.Phone = m.phoneRacing
	}
	if lead.Phone != "" {
		return false, nil
	}
	lead.Phone = phone
	m.phoneUpdates++
	return true, nil
}

func (m *mockLeadRepository) updatesTo(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.stageUpdates {
		if u.Status == status {
			n++
		}
	}
	return n
}

func (m *mockLeadRepository) lead(id string) *secondary.LeadRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lead, ok := m.leads[id]; ok {
		copied := *lead
		return &copied
	}
	return nil
}

// ============================================================================
// Mock EnrichmentCache
// ============================================================================

var _ secondary.EnrichmentCache = (*mockEnrichmentCache)(nil)

type mockEnrichmentCache struct {
	records map[string]*secondary.EnrichmentRecord
	err     error
}

func newMockEnrichmentCache() *mockEnrichmentCache {
	return &mockEnrichmentCache{records: make(map[string]*secondary.EnrichmentRecord)}
}

func (m *mockEnrichmentCache) FindByProfileReference(ctx context.Context, normalizedRef string) (*secondary.EnrichmentRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	want := strings.ToLower(profileurl.StripSchemeAndWWW(normalizedRef))
	for url, rec := range m.records {
		if url == normalizedRef || strings.ToLower(profileurl.StripSchemeAndWWW(url)) == want {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, secondary.ErrNotFound
}

// ============================================================================
// Mock CallHistoryRepository
// ============================================================================

var _ secondary.CallHistoryRepository = (*mockCallHistory)(nil)

type mockCallHistory struct {
	mu      sync.Mutex
	records []secondary.CallRecord
	err     error
}

func newMockCallHistory() *mockCallHistory {
	return &mockCallHistory{}
}

func (m *mockCallHistory) matches(rec secondary.CallRecord, since time.Time, q secondary.CallMarker) bool {
	if rec.CreatedAt.Before(since) {
		return false
	}
	if q.IdempotencyKey != "" && rec.IdempotencyKey == q.IdempotencyKey {
		return true
	}
	return q.SourceTag != "" && strings.Contains(rec.Context, q.SourceTag)
}

func (m *mockCallHistory) HasRecentCallForLead(ctx context.Context, leadID string, since time.Time, q secondary.CallMarker) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, rec := range m.records {
		if rec.LeadID == leadID && m.matches(rec, since, q) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCallHistory) HasRecentCallForPhone(ctx context.Context, phone string, since time.Time, q secondary.CallMarker) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, rec := range m.records {
		if phone != "" && rec.PhoneNumber == phone && m.matches(rec, since, q) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCallHistory) Record(ctx context.Context, call *secondary.CallRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *call)
	return nil
}

// ============================================================================
// Mock OrganizationRepository
// ============================================================================

var _ secondary.OrganizationRepository = (*mockOrganizationRepository)(nil)

type mockStage struct {
	key  string
	name string
}

type mockOrganizationRepository struct {
	stages map[string][]mockStage
	agents map[string]string
	err    error
}

func newMockOrganizationRepository() *mockOrganizationRepository {
	return &mockOrganizationRepository{
		stages: make(map[string][]mockStage),
		agents: make(map[string]string),
	}
}

func (m *mockOrganizationRepository) FindStageKeyByNameFragment(ctx context.Context, organizationID, fragment string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	for _, s := range m.stages[organizationID] {
		if strings.Contains(strings.ToLower(s.key), fragment) || strings.Contains(strings.ToLower(s.name), fragment) {
			return s.key, nil
		}
	}
	return "", secondary.ErrNotFound
}

func (m *mockOrganizationRepository) DefaultAgentID(ctx context.Context, organizationID string) (string, error) {
	return m.agents[organizationID], nil
}

// ============================================================================
// Mock AccountLinkRepository
// ============================================================================

var _ secondary.AccountLinkRepository = (*mockAccountLinkRepository)(nil)

type mockAccountLinkRepository struct {
	links     map[string]*secondary.AccountLinkRecord
	activeOrg string
	updateErr error
}

func newMockAccountLinkRepository() *mockAccountLinkRepository {
	return &mockAccountLinkRepository{links: make(map[string]*secondary.AccountLinkRecord)}
}

func (m *mockAccountLinkRepository) UpdateStatusByAccountID(ctx context.Context, accountID string, update secondary.AccountStatusUpdate) (*secondary.AccountLinkRecord, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	link, ok := m.links[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, secondary.ErrNotFound)
	}
	link.IsActive = update.IsActive
	link.Status = update.Status
	link.StatusMessage = update.StatusMessage
	copied := *link
	return &copied, nil
}

func (m *mockAccountLinkRepository) FindActiveOrganizationID(ctx context.Context) (string, error) {
	return m.activeOrg, nil
}

func (m *mockAccountLinkRepository) Create(ctx context.Context, link *secondary.AccountLinkRecord) error {
	copied := *link
	m.links[link.AccountID] = &copied
	return nil
}

// ============================================================================
// Mock CallPlacer
// ============================================================================

var _ secondary.CallPlacer = (*mockCallPlacer)(nil)

type mockCallPlacer struct {
	mu       sync.Mutex
	requests []secondary.CallRequest
	response *secondary.CallResponse
	err      error
}

func newMockCallPlacer() *mockCallPlacer {
	return &mockCallPlacer{response: &secondary.CallResponse{Success: true, CallID: "call-1"}}
}

func (m *mockCallPlacer) PlaceCall(ctx context.Context, req secondary.CallRequest) (*secondary.CallResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockCallPlacer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// ============================================================================
// Mock PlatformClient / PlatformRegistry
// ============================================================================

var _ secondary.PlatformClient = (*mockPlatformClient)(nil)
var _ secondary.PlatformRegistry = (*mockPlatformRegistry)(nil)

type mockPlatformClient struct {
	platform string
	invites  []string
	messages []string
	err      error
}

func (m *mockPlatformClient) Platform() string { return m.platform }

func (m *mockPlatformClient) Lookup(ctx context.Context, profileRef string) (*secondary.PlatformProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &secondary.PlatformProfile{ProviderID: "prov-1", PublicIdentifier: "jane-roe", FullName: "Jane Roe", ProfileURL: profileRef}, nil
}

func (m *mockPlatformClient) Invite(ctx context.Context, profileRef, message string) (*secondary.PlatformAction, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.invites = append(m.invites, profileRef)
	return &secondary.PlatformAction{ProviderID: "inv-1", Status: "sent"}, nil
}

func (m *mockPlatformClient) Message(ctx context.Context, profileRef, text string) (*secondary.PlatformAction, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.messages = append(m.messages, text)
	return &secondary.PlatformAction{ProviderID: "msg-1", Status: "sent"}, nil
}

type mockPlatformRegistry struct {
	clients map[string]secondary.PlatformClient
}

func (m *mockPlatformRegistry) Get(platform string) (secondary.PlatformClient, bool) {
	c, ok := m.clients[platform]
	return c, ok
}

func (m *mockPlatformRegistry) Names() []string {
	var names []string
	for name := range m.clients {
		names = append(names, name)
	}
	return names
}

var errBoom = errors.New("boom")
