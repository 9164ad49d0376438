// Package cli implements the outreach subcommands.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"github.com/example/outreach/internal/config"
	"github.com/example/outreach/internal/ports/primary"
	"github.com/example/outreach/internal/wire"
)

// runtime is what every service-backed command needs.
type runtime struct {
	cfg       config.Config
	logger    *slog.Logger
	container *wire.Container
	closeLog  func() error
}

// bootstrap loads configuration, sets up logging and creates the container.
func bootstrap() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn("configuration value ignored", "detail", w)
	}

	return &runtime{
		cfg:       cfg,
		logger:    logger,
		container: wire.New(cfg, logger),
		closeLog:  closeLog,
	}, nil
}

func (r *runtime) Close() {
	if err := r.container.Close(); err != nil {
		r.logger.Warn("failed to close database", "error", err)
	}
	_ = r.closeLog()
}

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
	failMark = color.New(color.FgRed).Sprint("✗")
)

// printWebhookResult renders a processing outcome for humans.
func printWebhookResult(out io.Writer, result *primary.WebhookResult) {
	mark := okMark
	switch {
	case !result.Success:
		mark = failMark
	case result.Outcome == primary.OutcomeDuplicate,
		result.Outcome == primary.OutcomeStale,
		result.Outcome == primary.OutcomeSkipped,
		result.Outcome == primary.OutcomeNotEligible,
		result.Outcome == primary.OutcomeIgnored:
		mark = warnMark
	}

	fmt.Fprintf(out, "%s %s", mark, color.New(color.Bold).Sprint(result.Outcome))
	if result.EventType != "" {
		fmt.Fprintf(out, " (%s)", result.EventType)
	}
	if result.LeadID != "" {
		fmt.Fprintf(out, " lead=%s", color.New(color.FgCyan).Sprint(result.LeadID))
	}
	fmt.Fprintln(out)

	switch {
	case result.Error != "":
		fmt.Fprintf(out, "  error: %s\n", result.Error)
	case result.Message != "":
		fmt.Fprintf(out, "  %s\n", result.Message)
	}

	for _, step := range result.SideEffects {
		stepMark := okMark
		if !step.Success {
			stepMark = warnMark
		}
		line := fmt.Sprintf("  %s %-12s %s", stepMark, step.Step, step.Status)
		if step.Source != "" {
			line += " [" + step.Source + "]"
		}
		if step.Detail != "" {
			line += ": " + step.Detail
		}
		fmt.Fprintln(out, line)
	}
}
