package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mistvale/dreamscope/pkg/journal"
	"github.com/mistvale/dreamscope/pkg/ui"
	"github.com/mistvale/dreamscope/pkg/updater"
)

// runTUI starts the interactive viewer. Vault watching, bookmarks, and the
// update check all degrade silently when unavailable.
func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; use `dv stats --json` or `dv export` for scripted output")
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	resolveVault(&cfg, args)

	// TUI logs go nowhere unless debugging; stderr would tear the screen.
	logger := log.New(io.Discard, "", log.LstdFlags)
	if os.Getenv("DV_DEBUG") != "" {
		if f, ferr := tea.LogToFile("dv-debug.log", "dv"); ferr == nil {
			defer f.Close()
			logger = log.Default()
		}
	}

	entries, summary, err := loadJournal(cfg)
	if err != nil {
		return fmt.Errorf("loading journal: %w", err)
	}
	if summary.Failed > 0 {
		logger.Printf("[UI] %d entries skipped during load", summary.Failed)
	}

	m := ui.NewModel(entries, &cfg, logger)

	watcher, err := journal.NewWatcher(cfg.JournalRoot())
	if err != nil {
		logger.Printf("[UI] vault watch disabled: %v", err)
	} else {
		watcher.SetLogger(logger)
		watcher.SetDebounce(cfg.Debounce())
		if err := watcher.Start(); err != nil {
			logger.Printf("[UI] vault watch disabled: %v", err)
		} else {
			defer watcher.Close()
			m.SetWatchEvents(watcher.Events())
		}
	}

	bookmarks := journal.NewBookmarkStore(cfg.VaultPath)
	if err := bookmarks.Load(); err != nil {
		logger.Printf("[UI] bookmarks unavailable: %v", err)
	} else {
		m.SetBookmarks(bookmarks)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	if cfg.CheckUpdates && !noUpdateCheck {
		go func() {
			tag, _, err := updater.CheckForUpdates()
			if err == nil && tag != "" {
				p.Send(ui.UpdateNoticeMsg{Notice: updater.Notice(tag)})
			}
		}()
	}

	_, err = p.Run()
	return err
}
