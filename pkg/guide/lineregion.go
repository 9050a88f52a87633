package guide

import "strings"

// LineRegion adapts markdown source text to the Region capability. ATX
// headings become mutable heading elements; decorations are spliced between
// the heading marker and its text when the source is re-assembled. The TUI
// annotates the guide source this way before handing it to the terminal
// markdown renderer.
type LineRegion struct {
	lines    []string
	headings []*lineHeading
}

type lineHeading struct {
	line        int
	level       int
	text        string
	decorations []string
}

func (h *lineHeading) Level() int   { return h.level }
func (h *lineHeading) Text() string { return h.text }

func (h *lineHeading) Prepend(decoration string) {
	h.decorations = append([]string{decoration}, h.decorations...)
}

// NewLineRegion parses markdown source. Headings inside fenced code blocks
// are not headings.
func NewLineRegion(source string) *LineRegion {
	r := &LineRegion{lines: strings.Split(source, "\n")}

	inFence := false
	for i, line := range r.lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		level, text, ok := parseATXHeading(line)
		if !ok {
			continue
		}
		r.headings = append(r.headings, &lineHeading{line: i, level: level, text: text})
	}
	return r
}

func (r *LineRegion) Headings() []Heading {
	out := make([]Heading, len(r.headings))
	for i, h := range r.headings {
		out[i] = h
	}
	return out
}

// String re-assembles the source with decorations applied.
func (r *LineRegion) String() string {
	lines := make([]string, len(r.lines))
	copy(lines, r.lines)
	for _, h := range r.headings {
		if len(h.decorations) == 0 {
			continue
		}
		marker := strings.Repeat("#", h.level)
		lines[h.line] = marker + " " + strings.Join(h.decorations, " ") + " " + h.text
	}
	return strings.Join(lines, "\n")
}

// parseATXHeading returns the level and text of an ATX heading line.
func parseATXHeading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, "", false
	}
	if level >= len(line) || line[level] != ' ' {
		return 0, "", false
	}
	return level, strings.TrimSpace(line[level+1:]), true
}
