// Package journal loads dream entries from a vault of markdown files and
// keeps them fresh while the vault changes on disk.
package journal

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mistvale/dreamscope/pkg/model"
)

// StateDirName is the vault subdirectory holding dreamscope state files.
const StateDirName = ".dreamscope"

// LoadResult contains the result of loading a single entry file
type LoadResult struct {
	// Path is the entry file path
	Path string

	// Entry is the parsed entry
	Entry model.Entry

	// Error is set if parsing failed
	Error error
}

// Loader loads all entries from a vault directory
type Loader struct {
	root   string
	logger *log.Logger
}

// NewLoader creates a loader for the given vault root
func NewLoader(root string) *Loader {
	return &Loader{
		root:   root,
		logger: log.Default(),
	}
}

// SetLogger sets a custom logger for error reporting
func (l *Loader) SetLogger(logger *log.Logger) {
	l.logger = logger
}

// LoadAll parses every entry file under the vault root.
// Returns entries sorted by date, oldest first.
// Failed files are logged but don't break the overall loading process.
func (l *Loader) LoadAll(ctx context.Context) ([]model.Entry, []LoadResult, error) {
	paths, err := FindEntryFiles(l.root)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no journal entries found in %s", l.root)
	}

	// Parse files in parallel using errgroup
	results, err := l.loadParallel(ctx, paths)
	if err != nil {
		return nil, results, fmt.Errorf("fatal error during parallel loading: %w", err)
	}

	// Merge all successfully parsed entries
	var entries []model.Entry
	for _, result := range results {
		if result.Error != nil {
			// Log but continue - individual file failures don't break the whole load
			l.logEntryError(result.Path, result.Error)
			continue
		}
		entries = append(entries, result.Entry)
	}

	SortEntries(entries)
	return entries, results, nil
}

// loadParallel parses all entry files concurrently using errgroup
func (l *Loader) loadParallel(ctx context.Context, paths []string) ([]LoadResult, error) {
	results := make([]LoadResult, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	// One goroutine per file, capped so a large vault can't exhaust
	// file descriptors.
	g.SetLimit(4 * runtime.NumCPU())

	for i, path := range paths {
		i, path := i, path // capture loop variables

		g.Go(func() error {
			select {
			case <-ctx.Done():
				mu.Lock()
				results[i] = LoadResult{Path: path, Error: ctx.Err()}
				mu.Unlock()
				return nil // Don't propagate context errors as fatal
			default:
			}

			entry, err := ParseEntryFile(path)

			mu.Lock()
			results[i] = LoadResult{Path: path, Entry: entry, Error: err}
			mu.Unlock()

			return nil // Individual file errors are captured in results, not propagated
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	return results, nil
}

// logEntryError logs an error for an entry file that failed to parse
func (l *Loader) logEntryError(path string, err error) {
	if l.logger != nil {
		l.logger.Printf("WARNING: Failed to load entry %q: %v", path, err)
	}
}

// FindEntryFiles walks the vault root and returns all markdown entry paths
// in sorted order. Hidden and underscore-prefixed directories are skipped,
// which keeps the state directory and template folders out of the journal.
func FindEntryFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// SortEntries orders entries by date, oldest first, breaking ties by path.
func SortEntries(entries []model.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Path < entries[j].Path
	})
}

// LoadVault is a convenience function that loads all entries from a vault root
func LoadVault(ctx context.Context, root string) ([]model.Entry, []LoadResult, error) {
	return NewLoader(root).LoadAll(ctx)
}

// LoadSummary is a summary of load results
type LoadSummary struct {
	TotalFiles  int
	Loaded      int
	Failed      int
	TotalWords  int
	FailedPaths []string
}

// Summarize returns a summary of the load results
func Summarize(results []LoadResult) LoadSummary {
	summary := LoadSummary{
		TotalFiles: len(results),
	}

	for _, result := range results {
		if result.Error != nil {
			summary.Failed++
			summary.FailedPaths = append(summary.FailedPaths, result.Path)
		} else {
			summary.Loaded++
			summary.TotalWords += result.Entry.WordCount
		}
	}

	return summary
}
