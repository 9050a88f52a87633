// Package metric holds the fixed catalog of dream-journal metrics: their
// kinds, ranges, icons, and scoring rubrics. The catalog order is stable and
// drives both the guide layout and the guide's icon rules.
package metric

import (
	"github.com/mistvale/dreamscope/pkg/guide"
	"github.com/mistvale/dreamscope/pkg/model"
)

var catalog = []model.Metric{
	{
		Name: "Sensory Detail", Icon: "eye", Kind: model.MetricScore, Min: 1, Max: 5,
		Description: "How vividly sensory impressions from the dream survive into waking memory.",
		Rubric: []string{
			"Almost no sensory impressions remain.",
			"A single vague impression (a color, a sound).",
			"Several impressions, but flat and generic.",
			"Multiple senses recalled with some specificity.",
			"Rich, specific detail across several senses.",
		},
	},
	{
		Name: "Emotional Recall", Icon: "heart", Kind: model.MetricScore, Min: 1, Max: 5,
		Description: "How clearly you can name the emotions felt inside the dream.",
		Rubric: []string{
			"No memory of feeling anything.",
			"A general mood, no specific emotion.",
			"One clear emotion.",
			"Several emotions and roughly when they occurred.",
			"A full emotional arc with transitions.",
		},
	},
	{
		Name: "Lost Segments", Icon: "circle-minus", Kind: model.MetricCount,
		Description: "Number of points where you are aware a piece of the dream is missing.",
	},
	{
		Name: "Descriptiveness", Icon: "pen-tool", Kind: model.MetricScore, Min: 1, Max: 5,
		Description: "How expressive the written entry itself is, beyond raw recall.",
		Rubric: []string{
			"Fragmentary notes only.",
			"Plain summary sentences.",
			"Coherent narrative with some texture.",
			"Detailed narrative with dialogue or imagery.",
			"Vivid prose that reads like a scene.",
		},
	},
	{
		Name: "Confidence Score", Icon: "check-circle", Kind: model.MetricScore, Min: 1, Max: 5,
		Description: "How confident you are that the entry reflects the dream rather than reconstruction.",
		Rubric: []string{
			"Mostly guesswork.",
			"Broad strokes feel right, details invented.",
			"Core events reliable, edges fuzzy.",
			"Confident in sequence and detail.",
			"Certain; the dream is still present.",
		},
	},
	{
		Name: "Character Roles", Icon: "user-cog", Kind: model.MetricScore, Min: 1, Max: 5,
		Description: "How active and defined the roles of dream characters were.",
		Rubric: []string{
			"No characters, or none with any role.",
			"Background figures only.",
			"One character with a clear role.",
			"Several characters with distinct roles.",
			"A full cast driving the dream's events.",
		},
	},
	{
		Name: "Characters Count", Icon: "users", Kind: model.MetricCount,
		Description: "Total number of distinct characters that appeared.",
	},
	{
		Name: "Familiar Count", Icon: "user-check", Kind: model.MetricCount,
		Description: "Characters you recognize from waking life.",
	},
	{
		Name: "Unfamiliar Count", Icon: "user-x", Kind: model.MetricCount,
		Description: "Characters invented by the dream.",
	},
	{
		Name: "Characters List", Icon: "users-round", Kind: model.MetricKeywords,
		Description: "Names or descriptions of the characters that appeared.",
	},
	{
		Name: "Dream Theme", Icon: "sparkles", Kind: model.MetricKeywords,
		Description: "Dominant themes or imagery categories of the dream.",
	},
	{
		Name: "Lucidity Level", Icon: "wand", Kind: model.MetricScore, Min: 1, Max: 5,
		Description: "Degree of awareness that you were dreaming while inside the dream.",
		Rubric: []string{
			"No awareness.",
			"A flicker of doubt about reality.",
			"Brief awareness that faded.",
			"Sustained awareness without control.",
			"Sustained awareness with deliberate control.",
		},
	},
	{
		Name: "Character Clarity/Familiarity", Icon: "glasses", Kind: model.MetricScore, Min: 1, Max: 5,
		Description: "How clearly characters' identities registered during the dream.",
		Rubric: []string{
			"Faceless presences.",
			"Roles sensed but identities blurred.",
			"Identities known the way dreams know things.",
			"Recognizable faces and names.",
			"Identities as crisp as waking perception.",
		},
	},
	{
		Name: "Environmental Familiarity", Icon: "home", Kind: model.MetricScore, Min: 1, Max: 5,
		Description: "How much the dream's settings resembled places you know.",
		Rubric: []string{
			"Entirely alien settings.",
			"Faint echoes of known places.",
			"Blends of familiar and invented.",
			"Mostly real places with distortions.",
			"Accurate renditions of known places.",
		},
	},
	{
		Name: "Time Distortion", Icon: "clock", Kind: model.MetricScore, Min: 1, Max: 5,
		Description: "How strongly time behaved abnormally (jumps, loops, dilation).",
		Rubric: []string{
			"Time flowed normally.",
			"Minor skips between scenes.",
			"Noticeable jumps or compression.",
			"Frequent loops or reversals.",
			"Time was unrecognizable.",
		},
	},
	{
		Name: "Ease of Recall", Icon: "zap", Kind: model.MetricScore, Min: 1, Max: 5,
		Description: "How easily the dream came back on waking.",
		Rubric: []string{
			"Recovered only through deliberate effort.",
			"Fragments surfaced slowly.",
			"Came back with light prompting.",
			"Readily available on waking.",
			"Immediate and complete.",
		},
	},
	{
		Name: "Recall Stability", Icon: "layers", Kind: model.MetricScore, Min: 1, Max: 5,
		Description: "How well the memory held up while you wrote it down.",
		Rubric: []string{
			"Evaporated faster than I could write.",
			"Major pieces slipped away mid-entry.",
			"Some edges faded, core held.",
			"Held steady through the whole entry.",
			"Still intact well after writing.",
		},
	},
}

// Catalog returns the full metric catalog in its stable display order.
// Callers must not mutate the returned slice.
func Catalog() []model.Metric {
	return catalog
}

// ByName looks up a catalog metric by its display name.
func ByName(name string) (model.Metric, bool) {
	for _, m := range catalog {
		if m.Name == name {
			return m, true
		}
	}
	return model.Metric{}, false
}

// Names returns the catalog metric names in display order.
func Names() []string {
	out := make([]string, len(catalog))
	for i, m := range catalog {
		out[i] = m.Name
	}
	return out
}

// DefaultEnabled is the metric set recorded by default for new vaults.
func DefaultEnabled() []string {
	return []string{
		"Sensory Detail",
		"Emotional Recall",
		"Lost Segments",
		"Descriptiveness",
		"Confidence Score",
	}
}

// GuideRules returns the ordered prefix → icon table the guide annotator
// applies to metric headings. The prefix is the metric name, so it matches
// headings like "Sensory Detail (Score 1-5)" without caring about the range
// suffix. Ordering follows the catalog, which keeps first-match-wins
// deterministic.
func GuideRules() []guide.IconRule {
	rules := make([]guide.IconRule, len(catalog))
	for i, m := range catalog {
		rules[i] = guide.IconRule{Prefix: m.Name, IconID: m.Icon}
	}
	return rules
}
