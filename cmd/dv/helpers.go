package main

import (
	"context"
	"time"

	"github.com/mistvale/dreamscope/pkg/config"
	"github.com/mistvale/dreamscope/pkg/journal"
	"github.com/mistvale/dreamscope/pkg/model"
)

// loadTimeout bounds a full vault load for the CLI paths.
const loadTimeout = 30 * time.Second

// loadAppConfig reads the config file named by --config, or the per-user
// config when the flag is unset.
func loadAppConfig() (config.Config, error) {
	if cfgFile != "" {
		return config.LoadFile(cfgFile)
	}
	return config.Load()
}

// resolveVault applies the optional positional vault argument and defaults
// the vault to the current directory.
func resolveVault(cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.VaultPath = args[0]
	}
	if cfg.VaultPath == "" {
		cfg.VaultPath = "."
	}
}

// loadJournal loads every entry under the configured journal root.
func loadJournal(cfg config.Config) ([]model.Entry, journal.LoadSummary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	entries, results, err := journal.LoadVault(ctx, cfg.JournalRoot())
	if err != nil {
		return nil, journal.LoadSummary{}, err
	}
	return entries, journal.Summarize(results), nil
}
