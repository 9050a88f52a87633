package analysis

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/mistvale/dreamscope/pkg/model"
)

// NetworkConfig controls which symbol network metrics are computed and how
// long each algorithm may run before falling back.
type NetworkConfig struct {
	ComputePageRank    bool          `json:"compute_pagerank"`
	PageRankTimeout    time.Duration `json:"pagerank_timeout"`
	ComputeCommunities bool          `json:"compute_communities"`
	CommunityTimeout   time.Duration `json:"community_timeout"`
	MaxCommunities     int           `json:"max_communities"`
}

// ConfigForSize selects algorithms based on network size. Journals rarely
// grow past a few hundred symbols, but pathological vaults shouldn't hang
// the UI.
func ConfigForSize(nodeCount, edgeCount int) NetworkConfig {
	cfg := NetworkConfig{
		ComputePageRank:    true,
		PageRankTimeout:    2 * time.Second,
		ComputeCommunities: true,
		CommunityTimeout:   2 * time.Second,
		MaxCommunities:     50,
	}
	if nodeCount > 2000 || edgeCount > 20000 {
		cfg.ComputePageRank = false
	}
	if nodeCount > 5000 {
		cfg.ComputeCommunities = false
	}
	return cfg
}

// SymbolPair is one co-occurring symbol pair with its entry count.
type SymbolPair struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Weight int    `json:"weight"`
}

// SymbolStats holds the results of symbol network analysis.
// Phase 1 fields (Degree, Occurrences, TopPairs, Density) are populated
// immediately and can be read without synchronization after AnalyzeAsync
// returns. Phase 2 fields (PageRank, communities) are computed in background
// and must be accessed via thread-safe accessor methods.
type SymbolStats struct {
	// Phase 1 - Available immediately after AnalyzeAsync returns (read-only after init)
	Degree      map[string]int // Number of distinct symbols this one co-occurs with
	Occurrences map[string]int // Number of entries the symbol appears in
	TopPairs    []SymbolPair
	Density     float64
	NodeCount   int
	EdgeCount   int // Number of co-occurring pairs

	// Configuration used for this analysis (read-only after init)
	Config NetworkConfig

	// Phase 2 - Computed in background, access via thread-safe methods only
	mu          sync.RWMutex
	phase2Ready bool
	phase2Done  chan struct{} // Closed when Phase 2 completes
	pageRank    map[string]float64
	communities [][]string
}

// IsPhase2Ready returns true if Phase 2 metrics have been computed.
func (s *SymbolStats) IsPhase2Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase2Ready
}

// WaitForPhase2 blocks until Phase 2 computation completes.
func (s *SymbolStats) WaitForPhase2() {
	if s.phase2Done != nil {
		<-s.phase2Done
	}
}

// GetPageRankScore returns the PageRank score for a single symbol.
// Returns 0 if Phase 2 is not yet complete or the symbol is unknown.
func (s *SymbolStats) GetPageRankScore(symbol string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pageRank == nil {
		return 0
	}
	return s.pageRank[symbol]
}

// PageRank returns a copy of the PageRank map. Safe for concurrent iteration.
// Returns nil if Phase 2 is not yet complete.
func (s *SymbolStats) PageRank() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pageRank == nil {
		return nil
	}
	cp := make(map[string]float64, len(s.pageRank))
	for k, v := range s.pageRank {
		cp[k] = v
	}
	return cp
}

// Communities returns a copy of the detected symbol communities, largest
// first. Returns nil if Phase 2 is not yet complete.
func (s *SymbolStats) Communities() [][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.communities == nil {
		return nil
	}
	cp := make([][]string, len(s.communities))
	for i, c := range s.communities {
		cp[i] = append([]string(nil), c...)
	}
	return cp
}

// GetCommunity returns the community containing the symbol, or nil.
func (s *SymbolStats) GetCommunity(symbol string) []string {
	for _, c := range s.Communities() {
		for _, member := range c {
			if member == symbol {
				return c
			}
		}
	}
	return nil
}

// TopSymbols returns the n highest-ranked symbols by PageRank, falling back
// to occurrence counts while Phase 2 is pending.
func (s *SymbolStats) TopSymbols(n int) []NameCount {
	ranks := s.PageRank()
	if len(ranks) == 0 {
		return topCounts(s.Occurrences, n)
	}
	out := make([]NameCount, 0, len(ranks))
	for symbol := range ranks {
		out = append(out, NameCount{Name: symbol, Count: s.Occurrences[symbol]})
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := ranks[out[i].Name], ranks[out[j].Name]
		if ri != rj {
			return ri > rj
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// NewSymbolStatsForTest creates a SymbolStats with the given data for testing.
// This allows tests to exercise consumers without running the full analyzer.
func NewSymbolStatsForTest(
	pageRank map[string]float64,
	degree, occurrences map[string]int,
	communities [][]string,
	topPairs []SymbolPair,
	density float64,
) *SymbolStats {
	stats := &SymbolStats{
		Degree:      degree,
		Occurrences: occurrences,
		TopPairs:    topPairs,
		Density:     density,
		NodeCount:   len(degree),
		EdgeCount:   len(topPairs),
		phase2Done:  make(chan struct{}),
		pageRank:    pageRank,
		communities: communities,
		phase2Ready: true,
	}
	close(stats.phase2Done)
	return stats
}

// SymbolAnalyzer builds and analyzes the symbol co-occurrence network.
// Symbols are nodes; two symbols are linked when they appear in the same
// entry. Links are modeled as edge pairs in a directed graph so ranking and
// component algorithms apply directly.
type SymbolAnalyzer struct {
	g           *simple.DirectedGraph
	idToNode    map[string]int64
	nodeToID    map[int64]string
	occurrences map[string]int
	pairWeights map[[2]string]int
	config      *NetworkConfig // Optional custom config, nil means use size-based defaults
}

// SetConfig sets a custom analysis configuration.
// Pass nil to use size-based automatic configuration.
func (a *SymbolAnalyzer) SetConfig(config *NetworkConfig) {
	a.config = config
}

// NewSymbolAnalyzer builds the co-occurrence network from journal entries.
func NewSymbolAnalyzer(entries []model.Entry) *SymbolAnalyzer {
	g := simple.NewDirectedGraph()
	idToNode := make(map[string]int64)
	nodeToID := make(map[int64]string)
	occurrences := make(map[string]int)
	pairWeights := make(map[[2]string]int)

	node := func(symbol string) int64 {
		if id, ok := idToNode[symbol]; ok {
			return id
		}
		n := g.NewNode()
		g.AddNode(n)
		idToNode[symbol] = n.ID()
		nodeToID[n.ID()] = symbol
		return n.ID()
	}

	for _, entry := range entries {
		symbols := distinctSorted(entry.Symbols)
		for _, symbol := range symbols {
			occurrences[symbol]++
			node(symbol)
		}
		// Every unordered pair in the entry co-occurs once. The slice is
		// sorted, so keys are already normalized.
		for i := 0; i < len(symbols); i++ {
			for j := i + 1; j < len(symbols); j++ {
				key := [2]string{symbols[i], symbols[j]}
				if pairWeights[key] == 0 {
					u, v := node(symbols[i]), node(symbols[j])
					g.SetEdge(g.NewEdge(g.Node(u), g.Node(v)))
					g.SetEdge(g.NewEdge(g.Node(v), g.Node(u)))
				}
				pairWeights[key]++
			}
		}
	}

	return &SymbolAnalyzer{
		g:           g,
		idToNode:    idToNode,
		nodeToID:    nodeToID,
		occurrences: occurrences,
		pairWeights: pairWeights,
	}
}

// distinctSorted returns the unique symbols of one entry in sorted order.
func distinctSorted(symbols []string) []string {
	out := append([]string(nil), symbols...)
	sort.Strings(out)
	n := 0
	for i, s := range out {
		if i == 0 || s != out[i-1] {
			out[n] = s
			n++
		}
	}
	return out[:n]
}

// Symbols returns all known symbols in sorted order.
func (a *SymbolAnalyzer) Symbols() []string {
	out := make([]string, 0, len(a.idToNode))
	for symbol := range a.idToNode {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}

// CoOccurring returns the symbols linked to the given one, strongest first.
func (a *SymbolAnalyzer) CoOccurring(symbol string) []NameCount {
	var out []NameCount
	for key, weight := range a.pairWeights {
		switch symbol {
		case key[0]:
			out = append(out, NameCount{Name: key[1], Count: weight})
		case key[1]:
			out = append(out, NameCount{Name: key[0], Count: weight})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Pairs returns every co-occurring pair, strongest first.
func (a *SymbolAnalyzer) Pairs() []SymbolPair {
	out := make([]SymbolPair, 0, len(a.pairWeights))
	for key, weight := range a.pairWeights {
		out = append(out, SymbolPair{A: key[0], B: key[1], Weight: weight})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// AnalyzeAsync performs network analysis in two phases for fast startup.
// Phase 1 (instant): degree, occurrences, top pairs, density
// Phase 2 (background): PageRank, communities
// Returns immediately with Phase 1 data. Use IsPhase2Ready() or
// WaitForPhase2() for Phase 2.
func (a *SymbolAnalyzer) AnalyzeAsync() *SymbolStats {
	var config NetworkConfig
	if a.config != nil {
		config = *a.config
	} else {
		config = ConfigForSize(len(a.idToNode), len(a.pairWeights))
	}
	return a.AnalyzeAsyncWithConfig(config)
}

// AnalyzeAsyncWithConfig performs network analysis with a custom configuration.
func (a *SymbolAnalyzer) AnalyzeAsyncWithConfig(config NetworkConfig) *SymbolStats {
	nodeCount := len(a.idToNode)

	stats := &SymbolStats{
		Degree:      make(map[string]int),
		Occurrences: make(map[string]int),
		NodeCount:   nodeCount,
		EdgeCount:   len(a.pairWeights),
		Config:      config,
		phase2Done:  make(chan struct{}),
		pageRank:    make(map[string]float64),
	}

	// Handle empty network - mark phase 2 ready immediately
	if nodeCount == 0 {
		stats.phase2Ready = true
		close(stats.phase2Done)
		return stats
	}

	// Phase 1: Fast metrics
	a.computePhase1(stats)

	// Phase 2: Expensive metrics in background goroutine
	go a.computePhase2(stats, config)

	return stats
}

// Analyze performs synchronous network analysis.
// Blocks until all metrics are computed.
func (a *SymbolAnalyzer) Analyze() *SymbolStats {
	stats := a.AnalyzeAsync()
	stats.WaitForPhase2()
	return stats
}

// computePhase1 calculates fast metrics synchronously.
func (a *SymbolAnalyzer) computePhase1(stats *SymbolStats) {
	for symbol, count := range a.occurrences {
		stats.Occurrences[symbol] = count
	}

	// Degree: distinct co-occurrence partners
	nodes := a.g.Nodes()
	for nodes.Next() {
		n := nodes.Node()
		symbol := a.nodeToID[n.ID()]
		stats.Degree[symbol] = a.g.From(n.ID()).Len()
	}

	// Top pairs by co-occurrence weight
	pairs := a.Pairs()
	if len(pairs) > 20 {
		pairs = pairs[:20]
	}
	stats.TopPairs = pairs

	// Undirected density over co-occurring pairs
	n := float64(stats.NodeCount)
	if n > 1 {
		stats.Density = float64(stats.EdgeCount) / (n * (n - 1) / 2)
	}
}

// computePhase2 calculates expensive metrics in background.
// Computes to local variables first, then atomically assigns under lock.
func (a *SymbolAnalyzer) computePhase2(stats *SymbolStats, config NetworkConfig) {
	defer close(stats.phase2Done)

	localPageRank := make(map[string]float64)
	var localCommunities [][]string

	// PageRank with timeout (if enabled)
	if config.ComputePageRank {
		prDone := make(chan map[int64]float64, 1)
		go func() {
			prDone <- network.PageRank(a.g, 0.85, 1e-6)
		}()

		select {
		case pr := <-prDone:
			for id, score := range pr {
				localPageRank[a.nodeToID[id]] = score
			}
		case <-time.After(config.PageRankTimeout):
			// Timeout - use uniform distribution
			uniform := 1.0 / float64(len(a.idToNode))
			for symbol := range a.idToNode {
				localPageRank[symbol] = uniform
			}
		}
	}

	// Communities with timeout (if enabled). With both edge directions
	// present, strongly connected components are exactly the connected
	// components of the co-occurrence network.
	if config.ComputeCommunities {
		maxCommunities := config.MaxCommunities
		if maxCommunities == 0 {
			maxCommunities = 50
		}

		commDone := make(chan [][]string, 1)
		go func() {
			var communities [][]string
			for _, scc := range topo.TarjanSCC(a.g) {
				members := make([]string, 0, len(scc))
				for _, n := range scc {
					members = append(members, a.nodeToID[n.ID()])
				}
				sort.Strings(members)
				communities = append(communities, members)
			}
			sort.Slice(communities, func(i, j int) bool {
				if len(communities[i]) != len(communities[j]) {
					return len(communities[i]) > len(communities[j])
				}
				return communities[i][0] < communities[j][0]
			})
			commDone <- communities
		}()

		select {
		case communities := <-commDone:
			if len(communities) > maxCommunities {
				communities = communities[:maxCommunities]
			}
			localCommunities = communities
		case <-time.After(config.CommunityTimeout):
			// Timeout - skip
		}
	}

	// ATOMIC ASSIGNMENT: Lock once and assign all computed values
	stats.mu.Lock()
	stats.pageRank = localPageRank
	stats.communities = localCommunities
	stats.phase2Ready = true
	stats.mu.Unlock()
}
