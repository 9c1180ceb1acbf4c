package cmd

import (
	"fmt"
	"os"

	"github.com/mallardduck/sentry-alert-tool/internal/cmd/syncalerts"
	"github.com/mallardduck/sentry-alert-tool/internal/config"
	"github.com/mallardduck/sentry-alert-tool/internal/sentry"

	"github.com/jedib0t/go-pretty/text"
)

// Helper functions for cmds

// mustClient loads and validates the run configuration, exiting fatally when
// required settings are missing. Every verb goes through here so a bad
// environment fails the same way everywhere.
func mustClient() (config.Config, *sentry.Client) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Println(text.Color.Sprintf(text.FgRed, "Configuration error: %v", err))
		os.Exit(ExitFatal)
	}
	return cfg, sentry.NewClient(cfg)
}

// exitForSummary maps a finished run onto the process exit status: partial
// per-project failures exit differently than a clean run.
func exitForSummary(summary syncalerts.Summary) {
	if summary.HasFailures() {
		os.Exit(ExitPartialFailure)
	}
}

// fatalIfRunFailed handles errors from the initial project listing, which
// abort the whole run.
func fatalIfRunFailed(err error) {
	if err == nil {
		return
	}
	fmt.Println(text.Color.Sprintf(text.FgRed, "Run aborted: %v", err))
	os.Exit(ExitFatal)
}
