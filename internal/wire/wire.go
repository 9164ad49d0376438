// Package wire provides dependency injection for the outreach service.
// It creates the shared services once, lazily, from a loaded configuration.
package wire

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/example/outreach/internal/adapters/callapi"
	"github.com/example/outreach/internal/adapters/memory"
	"github.com/example/outreach/internal/adapters/provider"
	"github.com/example/outreach/internal/adapters/sqlite"
	"github.com/example/outreach/internal/app"
	"github.com/example/outreach/internal/config"
	"github.com/example/outreach/internal/db"
	"github.com/example/outreach/internal/httpapi"
	"github.com/example/outreach/internal/ports/primary"
	"github.com/example/outreach/internal/ports/secondary"
)

// Container owns the database handle and the services built on it.
type Container struct {
	cfg    config.Config
	logger *slog.Logger

	once     sync.Once
	err      error
	database *db.DB

	processedEvents *sqlite.ProcessedEventRepository
	webhookService  primary.WebhookService
	outreachService primary.OutreachService
}

// New returns a container that builds its services on first use.
func New(cfg config.Config, logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.Default()
	}
	return &Container{cfg: cfg, logger: logger}
}

// NewWithDB returns a container over an already-open database. Tests use this with
// in-memory SQLite.
func NewWithDB(cfg config.Config, database *db.DB, logger *slog.Logger) *Container {
	c := New(cfg, logger)
	c.database = database
	return c
}

// DB returns the database handle, opening it and ensuring the schema on first use.
func (c *Container) DB() (*db.DB, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	return c.database, nil
}

// WebhookService returns the singleton WebhookService.
func (c *Container) WebhookService() (primary.WebhookService, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	return c.webhookService, nil
}

// OutreachService returns the singleton OutreachService.
func (c *Container) OutreachService() (primary.OutreachService, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	return c.outreachService, nil
}

// ProcessedEvents returns the durable fingerprint store used for purging.
func (c *Container) ProcessedEvents() (*sqlite.ProcessedEventRepository, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	return c.processedEvents, nil
}

// HTTPServer builds the HTTP handler over the singleton services.
func (c *Container) HTTPServer() (*httpapi.Server, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	return httpapi.NewServer(c.webhookService, c.outreachService, httpapi.ServerConfig{
		MaxBodyBytes: c.cfg.MaxBodyBytes,
	}, c.logger)
}

// Close releases the database handle.
func (c *Container) Close() error {
	if c.database == nil {
		return nil
	}
	return c.database.Close()
}

func (c *Container) init() error {
	c.once.Do(func() { c.err = c.initServices() })
	return c.err
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func (c *Container) initServices() error {
	if c.database == nil {
		database, err := db.Open(c.cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		c.database = database
	}
	if err := db.InitSchema(context.Background(), c.database); err != nil {
		return err
	}

	// Secondary adapters
	leadRepo := sqlite.NewLeadRepository(c.database)
	cache := sqlite.NewEnrichmentRepository(c.database)
	callRepo := sqlite.NewCallLogRepository(c.database)
	orgRepo := sqlite.NewOrganizationRepository(c.database)
	accountRepo := sqlite.NewAccountLinkRepository(c.database)
	c.processedEvents = sqlite.NewProcessedEventRepository(c.database)

	fingerprints, err := c.fingerprintStore()
	if err != nil {
		return err
	}

	placer := callapi.NewClient(callapi.Options{
		BaseURL: c.cfg.CallAPIBaseURL,
		APIKey:  c.cfg.CallAPIKey,
		Timeout: c.cfg.CallTimeout,
	})
	if c.cfg.CallAPIBaseURL == "" && c.cfg.AutoCallEnabled {
		c.logger.Warn("auto-call enabled without a call API base URL; calls will fail")
	}

	platforms := provider.NewDefaultRegistry(provider.NewClient(provider.Options{
		BaseURL:   c.cfg.ProviderBaseURL,
		APIKey:    c.cfg.ProviderAPIKey,
		AccountID: c.cfg.ProviderAccountID,
	}))

	// Application services
	stages := app.NewStageResolver(orgRepo, c.logger)
	matcher := app.NewLeadMatcher(leadRepo, cache, accountRepo, stages, c.logger)
	executor := app.NewSideEffectExecutor(leadRepo, cache, callRepo, orgRepo, placer, stages, app.SideEffectConfig{
		AutoCallEnabled: c.cfg.AutoCallEnabled,
		BatchMode:       c.cfg.AutoCallBatch,
		GlobalAgentID:   c.cfg.DefaultAgentID,
		CallLookback:    c.cfg.CallLookback,
	}, c.logger)

	c.webhookService = app.NewWebhookService(fingerprints, leadRepo, accountRepo, callRepo, matcher, executor, stages, app.WebhookConfig{
		MaxEventAge:  c.cfg.StaleAfter,
		CallLookback: c.cfg.CallLookback,
	}, c.logger)
	c.outreachService = app.NewOutreachService(platforms, c.logger)
	return nil
}

func (c *Container) fingerprintStore() (secondary.FingerprintStore, error) {
	if c.cfg.DedupBackend == config.DedupDurable {
		c.logger.Info("using durable webhook dedup", "ttl", c.cfg.DedupTTL)
		return c.processedEvents, nil
	}
	return memory.NewFingerprintCache(c.cfg.DedupCapacity)
}
