package export

import (
	"fmt"
	"hash/fnv"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/mistvale/dreamscope/pkg/analysis"
	"github.com/mistvale/dreamscope/pkg/metric"
	"github.com/mistvale/dreamscope/pkg/model"
)

// maxGraphSymbols caps the symbol map so large vocabularies stay readable.
const maxGraphSymbols = 24

// sanitizeMermaidID ensures an ID is valid for Mermaid diagrams.
// Mermaid node IDs must be alphanumeric with hyphens/underscores.
func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	result := sb.String()
	if result == "" {
		return "node"
	}
	return result
}

// sanitizeMermaidText prepares text for use in Mermaid node labels.
// Removes/escapes characters that break Mermaid syntax.
func sanitizeMermaidText(text string) string {
	// Remove or replace problematic characters
	replacer := strings.NewReplacer(
		"\"", "'",
		"[", "(",
		"]", ")",
		"{", "(",
		"}", ")",
		"<", "&lt;",
		">", "&gt;",
		"|", "/",
		"#", "",
		"`", "'",
		"\n", " ",
		"\r", "",
	)
	result := replacer.Replace(text)

	// Remove any remaining control characters
	result = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, result)

	result = strings.TrimSpace(result)

	// Truncate if too long (UTF-8 safe using runes)
	runes := []rune(result)
	if len(runes) > 40 {
		result = string(runes[:37]) + "..."
	}

	return result
}

// GenerateMarkdown creates a comprehensive markdown report of the journal.
// Entries are reported in the order given; SaveMarkdownToFile sorts newest
// first before calling this.
func GenerateMarkdown(entries []model.Entry, title string) (string, error) {
	var sb strings.Builder

	// The analysis code expects chronological order regardless of how the
	// report itself is ordered.
	chrono := append([]model.Entry(nil), entries...)
	sort.Slice(chrono, func(i, j int) bool {
		return chrono[i].Date.Before(chrono[j].Date)
	})

	stats := analysis.ComputeStats(chrono)
	scores := analysis.ComputeRecallScores(chrono)
	recallByPath := make(map[string]analysis.RecallScore, len(scores))
	for _, s := range scores {
		recallByPath[s.Path] = s
	}

	// Header
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", time.Now().Format(time.RFC1123)))

	// Summary Statistics
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| **Entries** | %d |\n", stats.EntryCount))
	if stats.EntryCount > 0 {
		sb.WriteString(fmt.Sprintf("| Span | %s to %s (%d days) |\n",
			stats.FirstDate.Format("2006-01-02"), stats.LastDate.Format("2006-01-02"), stats.SpanDays))
	}
	for _, k := range []model.EntryKind{model.KindLucid, model.KindVivid, model.KindNightmare, model.KindFragment, model.KindOrdinary} {
		if n := stats.KindCounts[k]; n > 0 {
			sb.WriteString(fmt.Sprintf("| %s %s | %d |\n", kindEmoji(k), k, n))
		}
	}
	sb.WriteString(fmt.Sprintf("| Lucid rate | %.0f%% |\n", stats.LucidRate*100))
	sb.WriteString(fmt.Sprintf("| Streak | %d now, %d best |\n", stats.CurrentStreak, stats.LongestStreak))
	sb.WriteString(fmt.Sprintf("| Pace | %.1f entries/week |\n", stats.EntriesPerWeek))
	sb.WriteString(fmt.Sprintf("| Words | %d total, %.0f avg |\n\n", stats.TotalWords, stats.AvgWords))

	// Command hints
	sb.WriteString(generateCommandHints())

	// Metric distributions
	sb.WriteString(generateMetricSection(stats))

	// Table of Contents
	sb.WriteString("## Table of Contents\n\n")
	for _, e := range entries {
		slug := createSlug(entryAnchor(e))
		sb.WriteString(fmt.Sprintf("- [%s %s %s](#%s)\n", kindEmoji(e.Kind), e.Date.Format("2006-01-02"), e.Title, slug))
	}
	sb.WriteString("\n---\n\n")

	// Symbol map (Mermaid)
	sb.WriteString(generateSymbolMap(chrono))

	// Recall leaders
	sb.WriteString(generateRecallLeaders(chrono))

	// Drift watch
	sb.WriteString(generateDriftSection(chrono))

	// Insights
	sb.WriteString(generateInsightSection(chrono))

	// Individual entries
	for _, e := range entries {
		writeEntrySection(&sb, e, recallByPath)
	}

	return sb.String(), nil
}

// generateMetricSection renders the per-metric distribution table with
// text sparklines over the most recent values.
func generateMetricSection(stats analysis.JournalStats) string {
	var sb strings.Builder

	rows := 0
	sb.WriteString("## Metrics\n\n")
	sb.WriteString("| Metric | Samples | Mean | Median | Range | Trend | Recent |\n")
	sb.WriteString("|--------|---------|------|--------|-------|-------|--------|\n")
	for _, name := range metric.Names() {
		summary, ok := stats.Metrics[name]
		if !ok || summary.Samples == 0 {
			continue
		}
		icon := ""
		if m, ok := metric.ByName(name); ok {
			icon = m.Icon + " "
		}
		sb.WriteString(fmt.Sprintf("| %s%s | %d | %.2f | %.1f | %g–%g | %s %.3f | `%s` |\n",
			icon, name, summary.Samples, summary.Mean, summary.Median,
			summary.Min, summary.Max, trendArrow(summary.Trend), summary.Trend,
			textSparkline(summary.Recent)))
		rows++
	}
	sb.WriteString("\n")

	if rows == 0 {
		return ""
	}
	return sb.String()
}

// generateSymbolMap renders the symbol co-occurrence network as a Mermaid
// graph. Node shading follows how often a symbol recurs; thick edges mark
// pairs that share three or more dreams.
func generateSymbolMap(entries []model.Entry) string {
	analyzer := analysis.NewSymbolAnalyzer(entries)
	symbols := analyzer.Symbols()
	if len(symbols) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Symbol Map\n\n")
	sb.WriteString("```mermaid\ngraph TD\n")

	// Style definitions
	sb.WriteString("    classDef frequent fill:#BD93F9,stroke:#333,color:#000\n")
	sb.WriteString("    classDef recurring fill:#8BE9FD,stroke:#333,color:#000\n")
	sb.WriteString("    classDef rare fill:#6272A4,stroke:#333,color:#fff\n")
	sb.WriteString("\n")

	// Count occurrences so the graph can be capped at the most frequent
	// symbols when the vocabulary is large.
	occurrences := make(map[string]int, len(symbols))
	for _, e := range entries {
		seen := make(map[string]bool, len(e.Symbols))
		for _, s := range e.Symbols {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			occurrences[s]++
		}
	}
	sort.SliceStable(symbols, func(i, j int) bool {
		if occurrences[symbols[i]] != occurrences[symbols[j]] {
			return occurrences[symbols[i]] > occurrences[symbols[j]]
		}
		return symbols[i] < symbols[j]
	})
	if len(symbols) > maxGraphSymbols {
		symbols = symbols[:maxGraphSymbols]
	}
	included := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		included[s] = true
	}

	// Build deterministic, collision-free Mermaid IDs
	safeIDMap := make(map[string]string)
	usedSafe := make(map[string]bool)
	getSafeID := func(orig string) string {
		if safe, ok := safeIDMap[orig]; ok {
			return safe
		}
		base := sanitizeMermaidID(orig)
		if base == "" {
			base = "node"
		}
		safe := base
		if usedSafe[safe] && safeIDMap[orig] == "" {
			// Collision: derive stable hash-based suffix
			h := fnv.New32a()
			_, _ = h.Write([]byte(orig))
			safe = fmt.Sprintf("%s_%x", base, h.Sum32())
		}
		usedSafe[safe] = true
		safeIDMap[orig] = safe
		return safe
	}

	for _, s := range symbols {
		safeID := getSafeID(s)
		label := sanitizeMermaidText(s)
		count := occurrences[s]
		noun := "dreams"
		if count == 1 {
			noun = "dream"
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s<br/>%d %s\"]\n", safeID, label, count, noun))

		var class string
		switch {
		case count >= 5:
			class = "frequent"
		case count >= 2:
			class = "recurring"
		default:
			class = "rare"
		}
		sb.WriteString(fmt.Sprintf("    class %s %s\n", safeID, class))
	}

	hasLinks := false
	for _, pair := range analyzer.Pairs() {
		if !included[pair.A] || !included[pair.B] {
			continue
		}
		linkStyle := "---"
		if pair.Weight >= 3 {
			linkStyle = "==="
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", getSafeID(pair.A), linkStyle, getSafeID(pair.B)))
		hasLinks = true
	}

	if !hasLinks && len(symbols) > 0 {
		sb.WriteString("    NoLinks[\"No Co-occurrences\"]\n")
	}
	sb.WriteString("```\n\n")
	sb.WriteString("---\n\n")

	return sb.String()
}

// generateRecallLeaders lists the best-recalled entries.
func generateRecallLeaders(entries []model.Entry) string {
	top := analysis.TopRecallScores(entries, 5)
	if len(top) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Recall Leaders\n\n")
	sb.WriteString("| # | Entry | Kind | Recall |\n|---|-------|------|--------|\n")
	for i, s := range top {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s %s | %.2f |\n",
			i+1, s.Title, kindEmoji(s.Kind), s.Kind, s.Score))
	}
	sb.WriteString("\n")
	return sb.String()
}

// generateDriftSection renders the drift signals with their explanation.
func generateDriftSection(entries []model.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	drift := analysis.ComputeDriftSignals(entries, time.Now())

	var sb strings.Builder
	sb.WriteString("## Drift Watch\n\n")
	sb.WriteString(fmt.Sprintf("Composite drift: **%.2f**\n\n", drift.CompositeDrift))
	if drift.Explanation != "" {
		sb.WriteString(drift.Explanation + "\n\n")
	}
	sb.WriteString("| Signal | Level |\n|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Score slump | %.2f |\n", drift.ScoreSlump))
	sb.WriteString(fmt.Sprintf("| Gap risk | %.2f |\n", drift.GapRisk))
	sb.WriteString(fmt.Sprintf("| Variability | %.2f |\n", drift.Variability))
	sb.WriteString(fmt.Sprintf("| Fragment risk | %.2f |\n\n", drift.FragmentRisk))
	return sb.String()
}

// generateInsightSection renders the generated insights as a bullet list.
func generateInsightSection(entries []model.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	symbolStats := analysis.NewSymbolAnalyzer(entries).Analyze()
	insights := analysis.GenerateInsights(entries, symbolStats, time.Now())
	if len(insights) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Insights\n\n")
	for _, in := range insights {
		sb.WriteString(fmt.Sprintf("- **%s** — %s *(confidence %.2f)*\n", in.Title, in.Detail, in.Confidence))
	}
	sb.WriteString("\n---\n\n")
	return sb.String()
}

// writeEntrySection renders one entry with its metadata table and metrics.
func writeEntrySection(sb *strings.Builder, e model.Entry, recall map[string]analysis.RecallScore) {
	sb.WriteString(fmt.Sprintf("## %s %s %s\n\n", kindEmoji(e.Kind), e.Date.Format("2006-01-02"), e.Title))

	// Metadata Table
	sb.WriteString("| Property | Value |\n|----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| **Kind** | %s %s |\n", kindEmoji(e.Kind), e.Kind))
	sb.WriteString(fmt.Sprintf("| **Date** | %s |\n", e.Date.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("| **Words** | %d |\n", e.WordCount))
	if s, ok := recall[e.Path]; ok {
		sb.WriteString(fmt.Sprintf("| **Recall** | %.2f |\n", s.Score))
	}
	if e.Path != "" {
		sb.WriteString(fmt.Sprintf("| **Source** | `%s` |\n", e.Path))
	}
	if len(e.Tags) > 0 {
		// Escape pipe characters in tags to avoid breaking markdown table
		escapedTags := make([]string, len(e.Tags))
		for idx, tag := range e.Tags {
			escapedTags[idx] = strings.ReplaceAll(tag, "|", "\\|")
		}
		sb.WriteString(fmt.Sprintf("| **Tags** | %s |\n", strings.Join(escapedTags, ", ")))
	}
	sb.WriteString("\n")

	if len(e.Metrics) > 0 {
		sb.WriteString("### Metrics\n\n")
		for _, name := range metric.Names() {
			v, ok := e.Metrics[name]
			if !ok {
				continue
			}
			m, known := metric.ByName(name)
			if known && m.Kind == model.MetricScore {
				sb.WriteString(fmt.Sprintf("- %s **%s**: %g/%g\n", m.Icon, name, v, m.Max))
			} else if known {
				sb.WriteString(fmt.Sprintf("- %s **%s**: %g\n", m.Icon, name, v))
			} else {
				sb.WriteString(fmt.Sprintf("- **%s**: %g\n", name, v))
			}
		}
		sb.WriteString("\n")
	}

	if len(e.Symbols) > 0 {
		sb.WriteString(fmt.Sprintf("**Symbols:** %s\n\n", strings.Join(e.Symbols, ", ")))
	}
	if len(e.Characters) > 0 {
		sb.WriteString(fmt.Sprintf("**Characters:** %s\n\n", strings.Join(e.Characters, ", ")))
	}

	sb.WriteString("---\n\n")
}

// entryAnchor builds the anchor source string for an entry heading.
func entryAnchor(e model.Entry) string {
	return e.Date.Format("2006-01-02") + " " + e.Title
}

// createSlug creates a URL-friendly slug from an ID
func createSlug(id string) string {
	// Convert to lowercase and replace non-alphanumeric with hyphens
	slug := strings.ToLower(id)
	reg := regexp.MustCompile(`[^a-z0-9]+`)
	slug = reg.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return slug
}

func kindEmoji(k model.EntryKind) string {
	switch k {
	case model.KindLucid:
		return "🌙"
	case model.KindVivid:
		return "✨"
	case model.KindNightmare:
		return "💀"
	case model.KindFragment:
		return "🧩"
	case model.KindOrdinary:
		return "💤"
	default:
		return "•"
	}
}

// trendArrow maps a metric slope to a direction glyph.
func trendArrow(slope float64) string {
	switch {
	case slope > 0.01:
		return "↑"
	case slope < -0.01:
		return "↓"
	default:
		return "→"
	}
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// textSparkline renders values as a run of block glyphs scaled to the
// series range. Flat series render as a low bar.
func textSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	var sb strings.Builder
	for _, v := range values {
		idx := 0
		if max > min {
			idx = int((v - min) / (max - min) * float64(len(sparkRunes)-1))
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		sb.WriteRune(sparkRunes[idx])
	}
	return sb.String()
}

// SaveMarkdownToFile writes the generated markdown to a file
func SaveMarkdownToFile(entries []model.Entry, filename string) error {
	// Make a copy to avoid mutating the caller's slice
	entriesCopy := make([]model.Entry, len(entries))
	copy(entriesCopy, entries)

	// Newest entries lead the report
	sort.Slice(entriesCopy, func(i, j int) bool {
		if !entriesCopy[i].Date.Equal(entriesCopy[j].Date) {
			return entriesCopy[i].Date.After(entriesCopy[j].Date)
		}
		return entriesCopy[i].Path < entriesCopy[j].Path
	})

	content, err := GenerateMarkdown(entriesCopy, "Dream Journal")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(content), 0644)
}

// generateCommandHints creates a section with ready-to-run dv commands.
func generateCommandHints() string {
	var sb strings.Builder
	sb.WriteString("## Quick Actions\n\n")
	sb.WriteString("Ready-to-run commands for this journal:\n\n")
	sb.WriteString("```bash\n")
	sb.WriteString("# Aggregate stats as JSON\n")
	sb.WriteString("dv stats --json\n\n")
	sb.WriteString("# Annotated metrics guide in the terminal\n")
	sb.WriteString("dv guide\n\n")
	sb.WriteString("# Standalone HTML guide with inline icons\n")
	sb.WriteString("dv export --format html -o guide.html\n\n")
	sb.WriteString("# Queryable SQLite snapshot of the journal\n")
	sb.WriteString("dv export --format sqlite -o journal.sqlite3\n")
	sb.WriteString("```\n\n")
	return sb.String()
}
