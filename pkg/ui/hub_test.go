package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mistvale/dreamscope/pkg/config"
	"github.com/mistvale/dreamscope/pkg/metric"
	"github.com/mistvale/dreamscope/pkg/model"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.VaultPath = "/dreams/vault"
	return &cfg
}

func testEntries() []model.Entry {
	return []model.Entry{
		{
			Path: "a.md", Title: "Flying over water", Kind: model.KindLucid,
			WordCount: 120, Symbols: []string{"water", "sky"},
		},
		{
			Path: "b.md", Title: "Lost in a library", Kind: model.KindOrdinary,
			WordCount: 80, Symbols: []string{"books"},
		},
	}
}

func TestHubOverview(t *testing.T) {
	m := NewHubModel(testTheme(), testConfig(), testEntries())
	view := m.View()

	for _, want := range []string{"Overview", "Metrics", "Settings", "/dreams/vault", "Words recorded", "Distinct symbols"} {
		if !strings.Contains(view, want) {
			t.Errorf("overview missing %q", want)
		}
	}
}

func TestHubTabSwitching(t *testing.T) {
	m := NewHubModel(testTheme(), testConfig(), testEntries())

	m, _ = m.Update(keyRune('2'))
	if m.tab != hubTabMetrics {
		t.Fatalf("tab = %v after 2, want metrics", m.tab)
	}
	if !strings.Contains(m.View(), "Sensory Detail") {
		t.Error("metrics tab should list the catalog")
	}

	m, _ = m.Update(keyRune('1'))
	if m.tab != hubTabOverview {
		t.Errorf("tab = %v after 1, want overview", m.tab)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.tab != hubTabMetrics {
		t.Errorf("tab = %v after tab key, want metrics", m.tab)
	}

	m, _ = m.Update(keyRune('['))
	if m.tab != hubTabOverview {
		t.Errorf("tab = %v after [, want overview", m.tab)
	}
}

func TestHubMetricsCursor(t *testing.T) {
	m := NewHubModel(testTheme(), testConfig(), testEntries())
	m, _ = m.Update(keyRune('2'))

	m, _ = m.Update(keyRune('j'))
	m, _ = m.Update(keyRune('j'))
	if m.selected != 2 {
		t.Errorf("selected = %d after jj, want 2", m.selected)
	}

	m, _ = m.Update(keyRune('G'))
	if want := len(metric.Catalog()) - 1; m.selected != want {
		t.Errorf("selected = %d after G, want %d", m.selected, want)
	}
	m, _ = m.Update(keyRune('j'))
	if want := len(metric.Catalog()) - 1; m.selected != want {
		t.Errorf("selected = %d, cursor should stop at the last metric", m.selected)
	}

	m, _ = m.Update(keyRune('g'))
	if m.selected != 0 {
		t.Errorf("selected = %d after g, want 0", m.selected)
	}
	m, _ = m.Update(keyRune('k'))
	if m.selected != 0 {
		t.Errorf("selected = %d, cursor should stop at the first metric", m.selected)
	}
}

func TestHubEscCloses(t *testing.T) {
	m := NewHubModel(testTheme(), testConfig(), testEntries())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.ShouldClose() {
		t.Error("esc should close the hub")
	}

	m.ResetClose()
	if m.ShouldClose() {
		t.Error("ResetClose should clear the flag")
	}
}

func TestHubOpenSettingsSeedsFromConfig(t *testing.T) {
	cfg := testConfig()
	m := NewHubModel(testTheme(), cfg, testEntries())

	m, _ = m.Update(keyRune('3'))
	if m.tab != hubTabSettings {
		t.Fatalf("tab = %v after 3, want settings", m.tab)
	}
	if m.form == nil {
		t.Fatal("settings form should exist")
	}
	if m.vaultPath != cfg.VaultPath {
		t.Errorf("vaultPath seeded = %q, want %q", m.vaultPath, cfg.VaultPath)
	}
	if len(m.enabled) != len(cfg.EnabledMetrics) {
		t.Fatalf("enabled seeded %d metrics, want %d", len(m.enabled), len(cfg.EnabledMetrics))
	}

	// The seed is a copy; editing it must not touch the config until apply.
	m.enabled[0] = "Changed"
	if cfg.EnabledMetrics[0] == "Changed" {
		t.Error("editing the form state leaked into the config")
	}
	if m.SettingsApplied() {
		t.Error("opening settings should not mark them applied")
	}
}

func TestHubApplySettings(t *testing.T) {
	cfg := testConfig()
	m := NewHubModel(testTheme(), cfg, testEntries())

	// Selections come back from the form in selection order; apply must
	// normalize to catalog order.
	m.vaultPath = "  /new/vault  "
	m.enabled = []string{"Lucidity Level", "Sensory Detail"}
	m.checkUpdates = false
	m.applySettings()

	if cfg.VaultPath != "/new/vault" {
		t.Errorf("VaultPath = %q, want trimmed path", cfg.VaultPath)
	}
	want := []string{"Sensory Detail", "Lucidity Level"}
	if len(cfg.EnabledMetrics) != len(want) {
		t.Fatalf("EnabledMetrics = %v, want %v", cfg.EnabledMetrics, want)
	}
	for i := range want {
		if cfg.EnabledMetrics[i] != want[i] {
			t.Errorf("EnabledMetrics[%d] = %q, want %q", i, cfg.EnabledMetrics[i], want[i])
		}
	}
	if cfg.CheckUpdates {
		t.Error("CheckUpdates should be off")
	}
	if !m.SettingsApplied() {
		t.Error("applySettings should mark the model applied")
	}
}

func TestHubCopySetsStatus(t *testing.T) {
	m := NewHubModel(testTheme(), testConfig(), testEntries())
	m, _ = m.Update(keyRune('2'))

	// Headless environments have no clipboard; either outcome must land
	// in the status line without panicking.
	m, _ = m.Update(keyRune('c'))
	if m.status == "" {
		t.Error("copy should report an outcome in the status line")
	}
	want := "Copied"
	if strings.HasPrefix(m.status, "Copy failed") {
		want = "Copy failed"
	}
	if !strings.Contains(m.View(), want) {
		t.Errorf("status line should be visible in the view, want %q", want)
	}
}

func TestMetricDefinition(t *testing.T) {
	mt, ok := metric.ByName("Sensory Detail")
	if !ok {
		t.Fatal("Sensory Detail not in catalog")
	}

	def := metricDefinition(mt)
	if !strings.Contains(def, mt.HeadingText()) {
		t.Error("definition missing heading")
	}
	if !strings.Contains(def, mt.Description) {
		t.Error("definition missing description")
	}
	if !strings.Contains(def, "1. ") || !strings.Contains(def, "5. ") {
		t.Error("definition missing numbered rubric")
	}
}
