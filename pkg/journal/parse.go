package journal

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mistvale/dreamscope/pkg/metric"
	"github.com/mistvale/dreamscope/pkg/model"
)

// frontMatter is the YAML block at the top of an entry file. All fields are
// optional; anything missing is recovered from the body or the filename.
type frontMatter struct {
	Title      string             `yaml:"title"`
	Date       string             `yaml:"date"`
	Kind       string             `yaml:"kind"`
	Tags       []string           `yaml:"tags"`
	Symbols    []string           `yaml:"symbols"`
	Characters []string           `yaml:"characters"`
	Metrics    map[string]float64 `yaml:"metrics"`
}

// ParseEntryFile reads and parses a single vault entry.
func ParseEntryFile(path string) (model.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Entry{}, fmt.Errorf("failed to read entry file: %w", err)
	}
	var modTime time.Time
	if info, err := os.Stat(path); err == nil {
		modTime = info.ModTime()
	}
	return ParseEntry(path, data, modTime)
}

// ParseEntry parses raw entry bytes. Metric values come from two places:
// the front-matter metrics map, and metric headings in the body followed by
// a value line. Body values win when both are present.
func ParseEntry(path string, data []byte, modTime time.Time) (model.Entry, error) {
	fmBytes, body := splitFrontMatter(data)

	entry := model.Entry{
		Path:    path,
		Metrics: make(map[string]float64),
		ModTime: modTime,
	}

	var fm frontMatter
	if len(fmBytes) > 0 {
		if err := yaml.Unmarshal(fmBytes, &fm); err != nil {
			return model.Entry{}, fmt.Errorf("invalid front matter in %s: %w", filepath.Base(path), err)
		}
	}

	entry.Title = fm.Title
	entry.Kind = model.ParseEntryKind(fm.Kind)
	entry.Tags = mergeKeywords(nil, fm.Tags)
	entry.Symbols = mergeKeywords(nil, fm.Symbols)
	entry.Characters = mergeKeywords(nil, fm.Characters)
	for name, v := range fm.Metrics {
		entry.Metrics[name] = v
	}

	parseBody(&entry, body)

	if entry.Title == "" {
		entry.Title = titleFromPath(path)
	}
	entry.Date = resolveDate(fm.Date, path, modTime)
	entry.WordCount = len(strings.Fields(string(body)))
	entry.ContentHash = fmt.Sprintf("%x", sha256.Sum256(data))

	return entry, nil
}

// splitFrontMatter separates a leading YAML block from the body. The block
// must open with "---" on the first line and close with another "---" line;
// files without the opening fence, or with an unterminated block, are all
// body.
func splitFrontMatter(data []byte) (fm, body []byte) {
	lines := strings.SplitAfter(string(data), "\n")
	if strings.TrimRight(lines[0], "\r\n") != "---" {
		return nil, data
	}
	offset := len(lines[0])
	for _, line := range lines[1:] {
		if strings.TrimRight(line, "\r\n") == "---" {
			return data[len(lines[0]):offset], data[offset+len(line):]
		}
		offset += len(line)
	}
	return nil, data
}

// parseBody walks the markdown body collecting the H1 title and metric
// heading values. Fenced code blocks are skipped so example headings inside
// them don't register. Catalog metrics recorded out of range stay
// unrecorded, like unanswered ones.
func parseBody(entry *model.Entry, body []byte) {
	lines := strings.Split(string(body), "\n")
	inFence := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		level, text, ok := splitHeading(line)
		if !ok {
			continue
		}
		if level == 1 && entry.Title == "" {
			entry.Title = text
			continue
		}
		if level != 3 && level != 4 {
			continue
		}
		name, keywords, ok := classifyMetricHeading(text)
		if !ok {
			continue
		}
		raw := firstValueLine(lines[i+1:])
		if raw == "" {
			continue
		}
		if keywords {
			words := splitKeywords(raw)
			entry.Metrics[name] = float64(len(words))
			if strings.Contains(name, "Character") {
				entry.Characters = mergeKeywords(entry.Characters, words)
			} else {
				entry.Symbols = mergeKeywords(entry.Symbols, words)
			}
			continue
		}
		if v, ok := parseMetricValue(raw); ok {
			if m, known := metric.ByName(name); known && !m.ValidValue(v) {
				continue
			}
			entry.Metrics[name] = v
		}
	}
}

// splitHeading parses an ATX heading line into its level and text.
func splitHeading(line string) (int, string, bool) {
	trimmed := strings.TrimSpace(line)
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(trimmed) || trimmed[level] != ' ' {
		return 0, "", false
	}
	return level, strings.TrimSpace(trimmed[level+1:]), true
}

// classifyMetricHeading decides whether a heading records a metric. Headings
// with a recognized range suffix ("(Score 1-5)", "(Count)", "(Yes/No)") are
// metrics named by the text before the suffix. Bare headings are metrics only
// when they name a keyword metric from the catalog.
func classifyMetricHeading(text string) (name string, keywords bool, ok bool) {
	if open := strings.LastIndex(text, " ("); open > 0 && strings.HasSuffix(text, ")") {
		label := text[open+2 : len(text)-1]
		switch {
		case strings.HasPrefix(label, "Score"), label == "Count", label == "Yes/No":
			return strings.TrimSpace(text[:open]), false, true
		}
	}
	if m, found := metric.ByName(text); found && m.Kind == model.MetricKeywords {
		return m.Name, true, true
	}
	return "", false, false
}

// firstValueLine returns the first non-blank line, stopping at the next
// heading or fence so an unanswered metric stays unrecorded.
func firstValueLine(lines []string) string {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			return ""
		}
		if _, _, ok := splitHeading(line); ok {
			return ""
		}
		return trimmed
	}
	return ""
}

// parseMetricValue interprets a recorded value line. Accepts plain numbers,
// "4/5" style fractions, and yes/no toggles.
func parseMetricValue(raw string) (float64, bool) {
	v := strings.Trim(strings.TrimSpace(raw), "*_`")
	if i := strings.Index(v, "/"); i > 0 {
		v = v[:i]
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true":
		return 1, true
	case "no", "false":
		return 0, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// splitKeywords splits a comma-separated keyword line, stripping Obsidian
// wiki-link brackets.
func splitKeywords(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "[[")
		part = strings.TrimSuffix(part, "]]")
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// mergeKeywords appends new keywords to dst, preserving order and dropping
// duplicates.
func mergeKeywords(dst, add []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range add {
		if s != "" && !seen[s] {
			dst = append(dst, s)
			seen[s] = true
		}
	}
	return dst
}

// resolveDate picks the entry date from front matter, then a YYYY-MM-DD
// filename prefix, then the file modification time.
func resolveDate(raw, path string, modTime time.Time) time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	base := filepath.Base(path)
	if len(base) >= 10 {
		if t, err := time.Parse("2006-01-02", base[:10]); err == nil {
			return t
		}
	}
	return modTime
}

// titleFromPath derives a title from the filename, dropping the extension
// and any leading date stamp.
func titleFromPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if len(base) >= 10 {
		if _, err := time.Parse("2006-01-02", base[:10]); err == nil {
			trimmed := strings.TrimLeft(base[10:], " -_")
			if trimmed != "" {
				return trimmed
			}
		}
	}
	return base
}
