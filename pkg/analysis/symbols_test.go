package analysis_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/mistvale/dreamscope/pkg/analysis"
	"github.com/mistvale/dreamscope/pkg/model"
)

// Helper to build an entry holding only symbols.
func symbolEntry(path string, symbols ...string) model.Entry {
	return model.Entry{Path: path, Title: path, Kind: model.KindOrdinary, Symbols: symbols}
}

// TestAnalyzeEmptyEntries ensures Analyze() doesn't panic with empty input.
// This is critical: gonum's PageRank panics on zero-length matrices.
func TestAnalyzeEmptyEntries(t *testing.T) {
	an := analysis.NewSymbolAnalyzer(nil)

	// This should NOT panic
	stats := an.Analyze()

	if !stats.IsPhase2Ready() {
		t.Error("Empty network should be ready immediately")
	}
	if len(stats.PageRank()) != 0 {
		t.Errorf("Expected empty PageRank, got %d", len(stats.PageRank()))
	}
	if stats.Communities() != nil {
		t.Errorf("Expected no communities, got %v", stats.Communities())
	}
	if stats.NodeCount != 0 || stats.EdgeCount != 0 {
		t.Errorf("Expected empty network, got %d nodes / %d edges", stats.NodeCount, stats.EdgeCount)
	}
}

func TestSingleSymbolNoPairs(t *testing.T) {
	entries := []model.Entry{symbolEntry("a.md", "door")}

	stats := analysis.NewSymbolAnalyzer(entries).Analyze()

	if stats.NodeCount != 1 || stats.EdgeCount != 0 {
		t.Errorf("Expected 1 node and 0 edges, got %d / %d", stats.NodeCount, stats.EdgeCount)
	}
	if stats.Degree["door"] != 0 {
		t.Errorf("Lone symbol should have degree 0, got %d", stats.Degree["door"])
	}
	if stats.Occurrences["door"] != 1 {
		t.Errorf("Expected 1 occurrence, got %d", stats.Occurrences["door"])
	}
	if len(stats.TopPairs) != 0 {
		t.Errorf("Expected no pairs, got %v", stats.TopPairs)
	}
}

func TestCoOccurrenceCounts(t *testing.T) {
	entries := []model.Entry{
		symbolEntry("a.md", "door", "water"),
		symbolEntry("b.md", "door", "water", "mirror"),
		symbolEntry("c.md", "door"),
	}

	an := analysis.NewSymbolAnalyzer(entries)

	symbols := an.Symbols()
	if len(symbols) != 3 || symbols[0] != "door" || symbols[1] != "mirror" || symbols[2] != "water" {
		t.Fatalf("Unexpected symbol list: %v", symbols)
	}

	pairs := an.Pairs()
	if len(pairs) != 3 {
		t.Fatalf("Expected 3 pairs, got %d", len(pairs))
	}
	if pairs[0].A != "door" || pairs[0].B != "water" || pairs[0].Weight != 2 {
		t.Errorf("Expected door-water x2 first, got %+v", pairs[0])
	}
	if pairs[1].A != "door" || pairs[1].B != "mirror" {
		t.Errorf("Equal weights should sort by name, got %+v", pairs[1])
	}

	co := an.CoOccurring("door")
	if len(co) != 2 || co[0].Name != "water" || co[0].Count != 2 || co[1].Name != "mirror" {
		t.Errorf("Unexpected co-occurrences for door: %v", co)
	}
	if len(an.CoOccurring("unknown")) != 0 {
		t.Error("Unknown symbol should have no co-occurrences")
	}
}

func TestDuplicateSymbolsInOneEntry(t *testing.T) {
	entries := []model.Entry{symbolEntry("a.md", "door", "door", "water")}

	stats := analysis.NewSymbolAnalyzer(entries).Analyze()

	if stats.Occurrences["door"] != 1 {
		t.Errorf("Duplicate symbol should count once per entry, got %d", stats.Occurrences["door"])
	}
	if len(stats.TopPairs) != 1 || stats.TopPairs[0].Weight != 1 {
		t.Errorf("Expected one door-water pair of weight 1, got %v", stats.TopPairs)
	}
}

func TestHubSymbolRanksHighest(t *testing.T) {
	entries := []model.Entry{
		symbolEntry("a.md", "door", "water"),
		symbolEntry("b.md", "door", "mirror"),
		symbolEntry("c.md", "door", "forest"),
	}

	stats := analysis.NewSymbolAnalyzer(entries).Analyze()

	if stats.Degree["door"] != 3 {
		t.Errorf("Expected hub degree 3, got %d", stats.Degree["door"])
	}
	if !approx(stats.Density, 0.5) {
		t.Errorf("Expected density 0.5, got %f", stats.Density)
	}

	doorRank := stats.GetPageRankScore("door")
	for _, leaf := range []string{"water", "mirror", "forest"} {
		if doorRank <= stats.GetPageRankScore(leaf) {
			t.Errorf("Hub should outrank %s: %f vs %f", leaf, doorRank, stats.GetPageRankScore(leaf))
		}
	}

	top := stats.TopSymbols(2)
	if len(top) != 2 || top[0].Name != "door" || top[0].Count != 3 {
		t.Errorf("Expected door x3 on top, got %v", top)
	}
}

func TestCommunitiesSplitDisconnectedNetworks(t *testing.T) {
	entries := []model.Entry{
		symbolEntry("a.md", "door", "water"),
		symbolEntry("b.md", "cat", "moon"),
	}

	stats := analysis.NewSymbolAnalyzer(entries).Analyze()

	communities := stats.Communities()
	if len(communities) != 2 {
		t.Fatalf("Expected 2 communities, got %d", len(communities))
	}
	// Equal sizes sort by first member
	if communities[0][0] != "cat" || communities[1][0] != "door" {
		t.Errorf("Unexpected community order: %v", communities)
	}

	community := stats.GetCommunity("door")
	if len(community) != 2 || community[0] != "door" || community[1] != "water" {
		t.Errorf("Unexpected community for door: %v", community)
	}
	if stats.GetCommunity("unknown") != nil {
		t.Error("Unknown symbol should have no community")
	}
}

func TestAnalyzeAsyncPhases(t *testing.T) {
	entries := []model.Entry{
		symbolEntry("a.md", "door", "water"),
		symbolEntry("b.md", "door", "mirror"),
	}

	stats := analysis.NewSymbolAnalyzer(entries).AnalyzeAsync()

	// Phase 1 data is available immediately
	if stats.NodeCount != 3 || stats.EdgeCount != 2 {
		t.Errorf("Phase 1 counts missing: %d nodes / %d edges", stats.NodeCount, stats.EdgeCount)
	}
	if stats.Occurrences["door"] != 2 {
		t.Errorf("Phase 1 occurrences missing: %v", stats.Occurrences)
	}

	stats.WaitForPhase2()
	if !stats.IsPhase2Ready() {
		t.Error("Phase 2 should be ready after WaitForPhase2")
	}
	if len(stats.PageRank()) != 3 {
		t.Errorf("Expected PageRank for 3 symbols, got %d", len(stats.PageRank()))
	}
}

func TestAnalyzeCompletesWithinTimeout(t *testing.T) {
	// A long chain of entries sharing one symbol with the next
	var entries []model.Entry
	for i := 0; i < 100; i++ {
		entries = append(entries, symbolEntry(
			fmt.Sprintf("entry-%d.md", i),
			fmt.Sprintf("sym-%d", i),
			fmt.Sprintf("sym-%d", i+1),
		))
	}

	an := analysis.NewSymbolAnalyzer(entries)

	done := make(chan struct{})
	go func() {
		_ = an.Analyze()
		close(done)
	}()

	select {
	case <-done:
		// Success - completed within time limit
	case <-time.After(3 * time.Second):
		t.Fatal("Analyze() did not complete within 3 seconds")
	}
}

func TestAnalyzeWithAlgorithmsDisabled(t *testing.T) {
	entries := []model.Entry{
		symbolEntry("a.md", "door", "water"),
	}

	an := analysis.NewSymbolAnalyzer(entries)
	an.SetConfig(&analysis.NetworkConfig{
		ComputePageRank:    false,
		ComputeCommunities: false,
	})
	stats := an.Analyze()

	if !stats.IsPhase2Ready() {
		t.Error("Phase 2 should complete even with algorithms disabled")
	}
	if len(stats.PageRank()) != 0 {
		t.Errorf("PageRank should be empty when disabled, got %v", stats.PageRank())
	}
	if stats.Communities() != nil {
		t.Errorf("Communities should be nil when disabled, got %v", stats.Communities())
	}

	// TopSymbols falls back to occurrence counts
	top := stats.TopSymbols(1)
	if len(top) != 1 || top[0].Count != 1 {
		t.Errorf("Expected occurrence fallback, got %v", top)
	}
}

func TestConfigForSize(t *testing.T) {
	small := analysis.ConfigForSize(100, 200)
	if !small.ComputePageRank || !small.ComputeCommunities {
		t.Error("Small networks should compute everything")
	}

	wide := analysis.ConfigForSize(2500, 100)
	if wide.ComputePageRank {
		t.Error("PageRank should be disabled past 2000 nodes")
	}
	if !wide.ComputeCommunities {
		t.Error("Communities should still run at 2500 nodes")
	}

	dense := analysis.ConfigForSize(100, 25000)
	if dense.ComputePageRank {
		t.Error("PageRank should be disabled past 20000 edges")
	}

	huge := analysis.ConfigForSize(6000, 100)
	if huge.ComputePageRank || huge.ComputeCommunities {
		t.Error("Huge networks should skip both algorithms")
	}
}

func TestNewSymbolStatsForTest(t *testing.T) {
	stats := analysis.NewSymbolStatsForTest(
		map[string]float64{"door": 0.6, "water": 0.4},
		map[string]int{"door": 1, "water": 1},
		map[string]int{"door": 4, "water": 2},
		[][]string{{"door", "water"}},
		[]analysis.SymbolPair{{A: "door", B: "water", Weight: 2}},
		1.0,
	)

	if !stats.IsPhase2Ready() {
		t.Error("Test stats should be ready immediately")
	}
	stats.WaitForPhase2() // Must not block

	if stats.GetPageRankScore("door") != 0.6 {
		t.Errorf("Expected rank 0.6, got %f", stats.GetPageRankScore("door"))
	}
	top := stats.TopSymbols(5)
	if len(top) != 2 || top[0].Name != "door" || top[0].Count != 4 {
		t.Errorf("Unexpected top symbols: %v", top)
	}
	if stats.NodeCount != 2 || stats.EdgeCount != 1 {
		t.Errorf("Unexpected counts: %d nodes / %d edges", stats.NodeCount, stats.EdgeCount)
	}
}
