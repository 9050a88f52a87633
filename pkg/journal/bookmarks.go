package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// BookmarkFileName is the default name for the bookmark storage file
	BookmarkFileName = "bookmarks.jsonl"
)

// BookmarkKind describes why an entry was bookmarked
type BookmarkKind string

const (
	// BookmarkPin marks an entry worth rereading
	BookmarkPin BookmarkKind = "pin"
	// BookmarkQuestion marks something unresolved in the entry
	BookmarkQuestion BookmarkKind = "question"
	// BookmarkPattern marks the entry as part of a recurring pattern
	BookmarkPattern BookmarkKind = "pattern"
)

// Bookmark is one saved pointer into the journal. Symbol is optional and
// scopes the bookmark to a recurring symbol within the entry.
type Bookmark struct {
	Path      string       `json:"path"`
	Symbol    string       `json:"symbol,omitempty"`
	Kind      BookmarkKind `json:"kind"`
	Note      string       `json:"note,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Recall    float64      `json:"recall,omitempty"`
}

// BookmarkStats summarizes the bookmarks on a vault
type BookmarkStats struct {
	Total     int
	Pinned    int
	Questions int
	Patterns  int
	AvgRecall float64
}

// BookmarkStore manages storage and retrieval of vault bookmarks
type BookmarkStore struct {
	stateDir string
	mu       sync.RWMutex
	cache    map[bookmarkKey]Bookmark
}

type bookmarkKey struct {
	path   string
	symbol string
}

// NewBookmarkStore creates a bookmark store under the given vault root
func NewBookmarkStore(vaultRoot string) *BookmarkStore {
	return &BookmarkStore{
		stateDir: filepath.Join(vaultRoot, StateDirName),
		cache:    make(map[bookmarkKey]Bookmark),
	}
}

// bookmarkPath returns the full path to the bookmark file
func (bs *BookmarkStore) bookmarkPath() string {
	return filepath.Join(bs.stateDir, BookmarkFileName)
}

// Load reads existing bookmarks from the JSONL file
func (bs *BookmarkStore) Load() error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	path := bs.bookmarkPath()
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		// No bookmark file yet, that's fine
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening bookmark file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var b Bookmark
		if err := json.Unmarshal(line, &b); err != nil {
			// Skip malformed lines, keep the rest
			continue
		}

		key := bookmarkKey{path: b.Path, symbol: b.Symbol}
		bs.cache[key] = b
	}

	return scanner.Err()
}

// Save stores a bookmark, appending to the JSONL file
func (bs *BookmarkStore) Save(b Bookmark) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	// Ensure the state directory exists
	if err := os.MkdirAll(bs.stateDir, 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	// Open file in append mode
	path := bs.bookmarkPath()
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening bookmark file: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshaling bookmark: %w", err)
	}

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}

	// Update cache
	key := bookmarkKey{path: b.Path, symbol: b.Symbol}
	bs.cache[key] = b

	return nil
}

// Get retrieves a bookmark for a specific path-symbol pair
func (bs *BookmarkStore) Get(path, symbol string) (Bookmark, bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	b, ok := bs.cache[bookmarkKey{path: path, symbol: symbol}]
	return b, ok
}

// Has returns true if a bookmark exists for this path-symbol pair
func (bs *BookmarkStore) Has(path, symbol string) bool {
	_, ok := bs.Get(path, symbol)
	return ok
}

// GetAll returns all bookmarks
func (bs *BookmarkStore) GetAll() []Bookmark {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	result := make([]Bookmark, 0, len(bs.cache))
	for _, b := range bs.cache {
		result = append(result, b)
	}
	return result
}

// GetByPath returns all bookmarks on a specific entry
func (bs *BookmarkStore) GetByPath(path string) []Bookmark {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	var result []Bookmark
	for _, b := range bs.cache {
		if b.Path == path {
			result = append(result, b)
		}
	}
	return result
}

// GetBySymbol returns all bookmarks scoped to a specific symbol
func (bs *BookmarkStore) GetBySymbol(symbol string) []Bookmark {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	var result []Bookmark
	for _, b := range bs.cache {
		if b.Symbol == symbol {
			result = append(result, b)
		}
	}
	return result
}

// GetStats calculates aggregate statistics about the bookmarks
func (bs *BookmarkStore) GetStats() BookmarkStats {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	stats := BookmarkStats{}
	var recallSum float64

	for _, b := range bs.cache {
		stats.Total++
		recallSum += b.Recall
		switch b.Kind {
		case BookmarkPin:
			stats.Pinned++
		case BookmarkQuestion:
			stats.Questions++
		case BookmarkPattern:
			stats.Patterns++
		}
	}

	if stats.Total > 0 {
		stats.AvgRecall = recallSum / float64(stats.Total)
	}

	return stats
}

// Pin records an entry as worth rereading
func (bs *BookmarkStore) Pin(path, symbol, note string, recall float64) error {
	return bs.Save(Bookmark{
		Path:      path,
		Symbol:    symbol,
		Kind:      BookmarkPin,
		Note:      note,
		CreatedAt: time.Now().UTC(),
		Recall:    recall,
	})
}

// Question records an unresolved question about an entry
func (bs *BookmarkStore) Question(path, symbol, note string, recall float64) error {
	return bs.Save(Bookmark{
		Path:      path,
		Symbol:    symbol,
		Kind:      BookmarkQuestion,
		Note:      note,
		CreatedAt: time.Now().UTC(),
		Recall:    recall,
	})
}

// Pattern records an entry as part of a recurring pattern
func (bs *BookmarkStore) Pattern(path, symbol, note string, recall float64) error {
	return bs.Save(Bookmark{
		Path:      path,
		Symbol:    symbol,
		Kind:      BookmarkPattern,
		Note:      note,
		CreatedAt: time.Now().UTC(),
		Recall:    recall,
	})
}
