package metric

import (
	"fmt"
	"strings"
)

// The guide document: prose blobs below, metric sections generated from the
// catalog. Group members use the metric display name; every catalog metric
// must belong to exactly one group (catalog_test enforces this).

const guideIntro = `# Dream Metrics Guide

Dreamscope reads the metrics you record in each entry's front matter and
turns them into trends, correlations, and drift warnings. This guide defines
every metric in the catalog: what it measures, how to score it, and what the
numbers mean.

Score metrics run 1-5 and are judgments about *recall*, not about the dream.
A mundane dream recalled in crisp detail scores higher than an epic one you
barely remember. Counts are plain tallies. Keyword metrics are lists; the
recorded value is the list length.`

const guidePractice = `## Keeping the Habit

Metrics only mean something against a steady baseline. A few entries a week,
scored honestly, beat daily entries scored on autopilot.

### Morning Routine

Write before anything else. Recall decays fastest in the first minutes after
waking; even two fragmentary sentences preserve more than a polished entry an
hour later. Score the metrics immediately after writing, while you can still
compare the entry against the memory.

### When Recall Collapses

Dry spells happen. Record them: an entry with a low Ease of Recall and a
high Lost Segments count is data, not failure. The drift signals exist to
catch these slumps early, and they can only do that if the bad mornings are
in the journal too.`

var guideGroups = []struct {
	title   string
	intro   string
	level   int // heading level for the group's metric sections
	members []string
}{
	{
		title: "Core Recall Metrics",
		intro: "The five defaults. Together they fingerprint how much of the dream\nmade it onto the page.",
		level: 3,
		members: []string{
			"Sensory Detail",
			"Emotional Recall",
			"Lost Segments",
			"Descriptiveness",
			"Confidence Score",
		},
	},
	{
		title: "Character Metrics",
		intro: "Who showed up. Counts and clarity scores for the dream's cast,\nrecorded separately so familiar and invented figures can drift apart.",
		level: 4,
		members: []string{
			"Character Roles",
			"Characters Count",
			"Familiar Count",
			"Unfamiliar Count",
			"Characters List",
			"Character Clarity/Familiarity",
		},
	},
	{
		title: "Dream Quality Metrics",
		intro: "Properties of the dream itself rather than of your recall of it.",
		level: 3,
		members: []string{
			"Dream Theme",
			"Lucidity Level",
			"Environmental Familiarity",
			"Time Distortion",
		},
	},
	{
		title: "Recall Practice Metrics",
		intro: "How the act of remembering went, independent of what was remembered.",
		level: 3,
		members: []string{
			"Ease of Recall",
			"Recall Stability",
		},
	},
}

// GuideMarkdown assembles the full guide document. Metric headings carry the
// range suffix from HeadingText, which is what GuideRules match against.
func GuideMarkdown() string {
	var b strings.Builder
	b.WriteString(guideIntro)
	b.WriteString("\n")

	for _, g := range guideGroups {
		b.WriteString("\n## ")
		b.WriteString(g.title)
		b.WriteString("\n\n")
		b.WriteString(g.intro)
		b.WriteString("\n")

		for _, name := range g.members {
			m, ok := ByName(name)
			if !ok {
				continue
			}
			b.WriteString("\n")
			b.WriteString(strings.Repeat("#", g.level))
			b.WriteString(" ")
			b.WriteString(m.HeadingText())
			b.WriteString("\n\n")
			b.WriteString(m.Description)
			b.WriteString("\n")
			if len(m.Rubric) > 0 {
				b.WriteString("\n")
				for i, line := range m.Rubric {
					fmt.Fprintf(&b, "%d. %s\n", m.Min+i, line)
				}
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(guidePractice)
	b.WriteString("\n")
	return b.String()
}
