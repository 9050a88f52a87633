package journal_test

import (
	"strings"
	"testing"
	"time"

	"github.com/mistvale/dreamscope/pkg/journal"
	"github.com/mistvale/dreamscope/pkg/model"
)

var fixedModTime = time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)

func parse(t *testing.T, path, content string) model.Entry {
	t.Helper()
	entry, err := journal.ParseEntry(path, []byte(content), fixedModTime)
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}
	return entry
}

// =============================================================================
// Front Matter Tests
// =============================================================================

func TestParseEntry_FullFrontMatter(t *testing.T) {
	content := `---
title: The Glass Harbor
date: 2026-02-14
kind: lucid
tags: [water, travel]
symbols: [mirror, harbor]
characters: [brother]
metrics:
  Sensory Detail: 4
---

I was standing on a pier made of glass.
`
	entry := parse(t, "vault/2026-02-14.md", content)

	if entry.Title != "The Glass Harbor" {
		t.Errorf("Title = %q", entry.Title)
	}
	if got := entry.Date.Format("2006-01-02"); got != "2026-02-14" {
		t.Errorf("Date = %s", got)
	}
	if entry.Kind != model.KindLucid {
		t.Errorf("Kind = %q", entry.Kind)
	}
	if len(entry.Tags) != 2 || entry.Tags[0] != "water" {
		t.Errorf("Tags = %v", entry.Tags)
	}
	if !entry.HasSymbol("mirror") || !entry.HasSymbol("harbor") {
		t.Errorf("Symbols = %v", entry.Symbols)
	}
	if len(entry.Characters) != 1 || entry.Characters[0] != "brother" {
		t.Errorf("Characters = %v", entry.Characters)
	}
	if v, ok := entry.Metric("Sensory Detail"); !ok || v != 4 {
		t.Errorf("Sensory Detail = %v, %v", v, ok)
	}
}

func TestParseEntry_InvalidFrontMatter(t *testing.T) {
	content := "---\ntitle: [unclosed\n---\nbody\n"
	_, err := journal.ParseEntry("vault/bad.md", []byte(content), fixedModTime)
	if err == nil {
		t.Fatal("Expected error for invalid front matter")
	}
	if !strings.Contains(err.Error(), "invalid front matter") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestParseEntry_UnterminatedFrontMatterIsBody(t *testing.T) {
	content := "---\ntitle: never closed\n\n# Real Title\n\nsome text\n"
	entry := parse(t, "vault/open.md", content)
	// Without a closing fence the whole file is body, so the H1 wins
	if entry.Title != "Real Title" {
		t.Errorf("Title = %q", entry.Title)
	}
}

func TestParseEntry_NoFrontMatter(t *testing.T) {
	entry := parse(t, "vault/plain.md", "# Just a Dream\n\nwords here\n")
	if entry.Title != "Just a Dream" {
		t.Errorf("Title = %q", entry.Title)
	}
	if entry.Kind != model.KindOrdinary {
		t.Errorf("Kind = %q, want ordinary default", entry.Kind)
	}
}

func TestParseEntry_UnknownKindDefaultsToOrdinary(t *testing.T) {
	entry := parse(t, "vault/x.md", "---\nkind: prophetic\n---\nbody\n")
	if entry.Kind != model.KindOrdinary {
		t.Errorf("Kind = %q", entry.Kind)
	}
}

// =============================================================================
// Body Metric Tests
// =============================================================================

func TestParseEntry_BodyMetricHeadings(t *testing.T) {
	content := `# Night Flight

### Sensory Detail (Score 1-5)
4

### Lost Segments (Count)
2

#### Ease of Recall (Score 1-5)
5
`
	entry := parse(t, "vault/flight.md", content)

	want := map[string]float64{
		"Sensory Detail": 4,
		"Lost Segments":  2,
		"Ease of Recall": 5,
	}
	for name, expected := range want {
		if v, ok := entry.Metric(name); !ok || v != expected {
			t.Errorf("%s = %v, %v; want %v", name, v, ok, expected)
		}
	}
}

func TestParseEntry_BodyOverridesFrontMatter(t *testing.T) {
	content := `---
metrics:
  Sensory Detail: 2
---
### Sensory Detail (Score 1-5)
5
`
	entry := parse(t, "vault/x.md", content)
	if v, _ := entry.Metric("Sensory Detail"); v != 5 {
		t.Errorf("Sensory Detail = %v, want body value 5", v)
	}
}

func TestParseEntry_FractionAndToggleValues(t *testing.T) {
	content := `### Emotional Recall (Score 1-5)
3/5

### Recurring Dream (Yes/No)
Yes
`
	entry := parse(t, "vault/x.md", content)
	if v, _ := entry.Metric("Emotional Recall"); v != 3 {
		t.Errorf("Emotional Recall = %v", v)
	}
	if v, _ := entry.Metric("Recurring Dream"); v != 1 {
		t.Errorf("Recurring Dream = %v", v)
	}
}

func TestParseEntry_EmphasizedValue(t *testing.T) {
	entry := parse(t, "vault/x.md", "### Confidence Score (Score 1-5)\n**4**\n")
	if v, _ := entry.Metric("Confidence Score"); v != 4 {
		t.Errorf("Confidence Score = %v", v)
	}
}

func TestParseEntry_UnansweredMetricUnrecorded(t *testing.T) {
	content := `### Sensory Detail (Score 1-5)

### Emotional Recall (Score 1-5)
3
`
	entry := parse(t, "vault/x.md", content)
	if _, ok := entry.Metric("Sensory Detail"); ok {
		t.Error("Sensory Detail should be unrecorded without a value line")
	}
	if v, _ := entry.Metric("Emotional Recall"); v != 3 {
		t.Errorf("Emotional Recall = %v", v)
	}
}

func TestParseEntry_NonNumericValueIgnored(t *testing.T) {
	entry := parse(t, "vault/x.md", "### Sensory Detail (Score 1-5)\nvivid but fading\n")
	if _, ok := entry.Metric("Sensory Detail"); ok {
		t.Error("prose value should not record a number")
	}
}

func TestParseEntry_OutOfRangeScoreUnrecorded(t *testing.T) {
	content := `### Sensory Detail (Score 1-5)
12

### Night Pulse (Score 1-5)
12
`
	entry := parse(t, "vault/x.md", content)
	if _, ok := entry.Metric("Sensory Detail"); ok {
		t.Error("out-of-range score should stay unrecorded")
	}
	// Headings outside the catalog have no range to enforce.
	if v, _ := entry.Metric("Night Pulse"); v != 12 {
		t.Errorf("Night Pulse = %v, want 12", v)
	}
}

func TestParseEntry_FencedHeadingsSkipped(t *testing.T) {
	content := "```\n### Sensory Detail (Score 1-5)\n5\n```\n\n### Emotional Recall (Score 1-5)\n2\n"
	entry := parse(t, "vault/x.md", content)
	if _, ok := entry.Metric("Sensory Detail"); ok {
		t.Error("heading inside a code fence should not register")
	}
	if v, _ := entry.Metric("Emotional Recall"); v != 2 {
		t.Errorf("Emotional Recall = %v", v)
	}
}

func TestParseEntry_OnlyLevelsThreeAndFourRecord(t *testing.T) {
	content := "## Sensory Detail (Score 1-5)\n5\n\n##### Emotional Recall (Score 1-5)\n4\n"
	entry := parse(t, "vault/x.md", content)
	if len(entry.Metrics) != 0 {
		t.Errorf("Metrics = %v, want empty", entry.Metrics)
	}
}

// =============================================================================
// Keyword Heading Tests
// =============================================================================

func TestParseEntry_KeywordHeadings(t *testing.T) {
	content := `### Dream Theme
flying, [[ocean]], pursuit

### Characters List
sister, a stranger in grey
`
	entry := parse(t, "vault/x.md", content)

	for _, s := range []string{"flying", "ocean", "pursuit"} {
		if !entry.HasSymbol(s) {
			t.Errorf("missing symbol %q in %v", s, entry.Symbols)
		}
	}
	if len(entry.Characters) != 2 || entry.Characters[1] != "a stranger in grey" {
		t.Errorf("Characters = %v", entry.Characters)
	}
	if v, _ := entry.Metric("Dream Theme"); v != 3 {
		t.Errorf("Dream Theme count = %v", v)
	}
	if v, _ := entry.Metric("Characters List"); v != 2 {
		t.Errorf("Characters List count = %v", v)
	}
}

func TestParseEntry_KeywordsMergeWithFrontMatter(t *testing.T) {
	content := `---
symbols: [ocean]
---
### Dream Theme
ocean, teeth
`
	entry := parse(t, "vault/x.md", content)
	if len(entry.Symbols) != 2 {
		t.Errorf("Symbols = %v, want deduped [ocean teeth]", entry.Symbols)
	}
}

func TestParseEntry_UnknownBareHeadingIgnored(t *testing.T) {
	entry := parse(t, "vault/x.md", "### Morning Notes\ncoffee first\n")
	if len(entry.Metrics) != 0 {
		t.Errorf("Metrics = %v, want empty", entry.Metrics)
	}
}

// =============================================================================
// Fallback Tests
// =============================================================================

func TestParseEntry_TitleAndDateFromFilename(t *testing.T) {
	entry := parse(t, "vault/2026-01-09-red-door.md", "no headings here\n")
	if entry.Title != "red-door" {
		t.Errorf("Title = %q", entry.Title)
	}
	if got := entry.Date.Format("2006-01-02"); got != "2026-01-09" {
		t.Errorf("Date = %s", got)
	}
}

func TestParseEntry_DateFallsBackToModTime(t *testing.T) {
	entry := parse(t, "vault/untitled.md", "words\n")
	if !entry.Date.Equal(fixedModTime) {
		t.Errorf("Date = %v, want mod time", entry.Date)
	}
}

func TestParseEntry_WordCountAndHash(t *testing.T) {
	a := parse(t, "vault/a.md", "---\ntitle: T\n---\none two three\n")
	if a.WordCount != 3 {
		t.Errorf("WordCount = %d, want 3 (front matter excluded)", a.WordCount)
	}
	b := parse(t, "vault/a.md", "---\ntitle: T\n---\none two three four\n")
	if a.ContentHash == b.ContentHash {
		t.Error("hash should change with content")
	}
	if a.ContentHash == "" {
		t.Error("hash should be set")
	}
}
