package journal_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mistvale/dreamscope/pkg/journal"
)

// =============================================================================
// BookmarkStore Tests
// =============================================================================

func TestBookmarkStore_LoadMissingFile(t *testing.T) {
	store := journal.NewBookmarkStore(t.TempDir())
	if err := store.Load(); err != nil {
		t.Fatalf("Missing bookmark file should not error: %v", err)
	}
	if len(store.GetAll()) != 0 {
		t.Error("Expected no bookmarks")
	}
}

func TestBookmarkStore_SaveAndGet(t *testing.T) {
	store := journal.NewBookmarkStore(t.TempDir())

	if err := store.Pin("vault/a.md", "mirror", "keeps coming back", 3.5); err != nil {
		t.Fatalf("Pin failed: %v", err)
	}

	b, ok := store.Get("vault/a.md", "mirror")
	if !ok {
		t.Fatal("Expected bookmark to exist")
	}
	if b.Kind != journal.BookmarkPin {
		t.Errorf("Kind = %q", b.Kind)
	}
	if b.Note != "keeps coming back" {
		t.Errorf("Note = %q", b.Note)
	}
	if b.Recall != 3.5 {
		t.Errorf("Recall = %v", b.Recall)
	}
	if b.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	// Symbol is part of the key
	if store.Has("vault/a.md", "") {
		t.Error("Unscoped lookup should miss a symbol-scoped bookmark")
	}
}

func TestBookmarkStore_PersistsAcrossStores(t *testing.T) {
	dir := t.TempDir()

	first := journal.NewBookmarkStore(dir)
	if err := first.Question("vault/a.md", "", "who was the stranger?", 2); err != nil {
		t.Fatalf("Question failed: %v", err)
	}
	if err := first.Pattern("vault/b.md", "ocean", "", 4); err != nil {
		t.Fatalf("Pattern failed: %v", err)
	}

	second := journal.NewBookmarkStore(dir)
	if err := second.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(second.GetAll()) != 2 {
		t.Fatalf("Expected 2 bookmarks after reload, got %d", len(second.GetAll()))
	}
	if _, ok := second.Get("vault/b.md", "ocean"); !ok {
		t.Error("Pattern bookmark missing after reload")
	}
}

func TestBookmarkStore_LatestWinsPerKey(t *testing.T) {
	dir := t.TempDir()
	store := journal.NewBookmarkStore(dir)

	if err := store.Pin("vault/a.md", "", "first", 1); err != nil {
		t.Fatal(err)
	}
	if err := store.Question("vault/a.md", "", "second", 2); err != nil {
		t.Fatal(err)
	}

	b, ok := store.Get("vault/a.md", "")
	if !ok || b.Note != "second" {
		t.Errorf("Expected latest bookmark to win, got %+v", b)
	}

	// Reload replays the append log in order, so latest still wins
	reloaded := journal.NewBookmarkStore(dir)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	b, _ = reloaded.Get("vault/a.md", "")
	if b.Note != "second" {
		t.Errorf("After reload, note = %q", b.Note)
	}
}

func TestBookmarkStore_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	stateDir := filepath.Join(dir, journal.StateDirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `{"path":"vault/a.md","kind":"pin","created_at":"2026-01-01T00:00:00Z"}
{not valid json}
{"path":"vault/b.md","kind":"question","created_at":"2026-01-02T00:00:00Z"}
`
	if err := os.WriteFile(filepath.Join(stateDir, journal.BookmarkFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	store := journal.NewBookmarkStore(dir)
	if err := store.Load(); err != nil {
		t.Fatalf("Load should skip malformed lines: %v", err)
	}
	if len(store.GetAll()) != 2 {
		t.Errorf("Expected 2 valid bookmarks, got %d", len(store.GetAll()))
	}
}

func TestBookmarkStore_QueriesAndStats(t *testing.T) {
	store := journal.NewBookmarkStore(t.TempDir())
	store.Pin("vault/a.md", "mirror", "", 4)
	store.Pin("vault/a.md", "ocean", "", 2)
	store.Question("vault/b.md", "mirror", "", 3)

	if got := len(store.GetByPath("vault/a.md")); got != 2 {
		t.Errorf("GetByPath = %d, want 2", got)
	}
	if got := len(store.GetBySymbol("mirror")); got != 2 {
		t.Errorf("GetBySymbol = %d, want 2", got)
	}

	stats := store.GetStats()
	if stats.Total != 3 || stats.Pinned != 2 || stats.Questions != 1 || stats.Patterns != 0 {
		t.Errorf("Stats = %+v", stats)
	}
	if stats.AvgRecall != 3 {
		t.Errorf("AvgRecall = %v, want 3", stats.AvgRecall)
	}
}
