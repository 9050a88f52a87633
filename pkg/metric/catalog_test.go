package metric

import (
	"strings"
	"testing"

	"github.com/mistvale/dreamscope/pkg/guide"
	"github.com/mistvale/dreamscope/pkg/model"
)

func TestCatalogNamesAndIconsUnique(t *testing.T) {
	names := make(map[string]bool)
	icons := make(map[string]bool)
	for _, m := range Catalog() {
		if names[m.Name] {
			t.Errorf("duplicate metric name %q", m.Name)
		}
		names[m.Name] = true
		if icons[m.Icon] {
			t.Errorf("duplicate metric icon %q", m.Icon)
		}
		icons[m.Icon] = true
	}
}

func TestScoreMetricsHaveFullRubrics(t *testing.T) {
	for _, m := range Catalog() {
		if m.Kind != model.MetricScore {
			if len(m.Rubric) != 0 {
				t.Errorf("%s: non-score metric carries a rubric", m.Name)
			}
			continue
		}
		if m.Min != 1 || m.Max != 5 {
			t.Errorf("%s: score range = [%v, %v], want [1, 5]", m.Name, m.Min, m.Max)
		}
		if len(m.Rubric) != 5 {
			t.Errorf("%s: rubric has %d lines, want 5", m.Name, len(m.Rubric))
		}
	}
}

func TestCatalogIconsResolve(t *testing.T) {
	term := guide.TerminalIcons()
	svg := guide.SVGIcons()
	for _, m := range Catalog() {
		if _, ok := term.Resolve(m.Icon); !ok {
			t.Errorf("%s: icon %q missing from terminal set", m.Name, m.Icon)
		}
		if _, ok := svg.Resolve(m.Icon); !ok {
			t.Errorf("%s: icon %q missing from SVG set", m.Name, m.Icon)
		}
	}
}

func TestByName(t *testing.T) {
	m, ok := ByName("Lucidity Level")
	if !ok {
		t.Fatal("Lucidity Level not found")
	}
	if m.Icon != "wand" {
		t.Errorf("icon = %q, want %q", m.Icon, "wand")
	}
	if _, ok := ByName("lucidity level"); ok {
		t.Error("lookup should be case-sensitive")
	}
	if _, ok := ByName("No Such Metric"); ok {
		t.Error("unknown name should miss")
	}
}

func TestGuideRulesFollowCatalogOrder(t *testing.T) {
	rules := GuideRules()
	cat := Catalog()
	if len(rules) != len(cat) {
		t.Fatalf("rules = %d, catalog = %d", len(rules), len(cat))
	}
	for i, r := range rules {
		if r.Prefix != cat[i].Name {
			t.Errorf("rule %d prefix = %q, want %q", i, r.Prefix, cat[i].Name)
		}
		if r.IconID != cat[i].Icon {
			t.Errorf("rule %d icon = %q, want %q", i, r.IconID, cat[i].Icon)
		}
	}
}

func TestGuideRulesMatchHeadingText(t *testing.T) {
	// Ensure each rule prefix actually decorates the heading the guide
	// renders for that metric.
	reg := guide.TerminalIcons()
	region := &guide.MemRegion{}
	for _, m := range Catalog() {
		region.AddHeading(3, m.HeadingText())
	}
	guide.NewAnnotator().Annotate(region, GuideRules(), reg)
	for i, h := range region.Items {
		if len(h.Decorations) != 1 {
			t.Errorf("heading %q: %d decorations, want 1", h.Label, len(h.Decorations))
			continue
		}
		want, _ := reg.Resolve(Catalog()[i].Icon)
		if h.Decorations[0] != want {
			t.Errorf("heading %q: decoration = %q, want %q", h.Label, h.Decorations[0], want)
		}
	}
}

func TestDefaultEnabledSubsetOfCatalog(t *testing.T) {
	for _, name := range DefaultEnabled() {
		if _, ok := ByName(name); !ok {
			t.Errorf("default metric %q not in catalog", name)
		}
	}
}

func TestGuideGroupsPartitionCatalog(t *testing.T) {
	seen := make(map[string]int)
	for _, g := range guideGroups {
		for _, name := range g.members {
			if _, ok := ByName(name); !ok {
				t.Errorf("group %q member %q not in catalog", g.title, name)
			}
			seen[name]++
		}
	}
	for _, m := range Catalog() {
		if seen[m.Name] != 1 {
			t.Errorf("%s appears in %d groups, want exactly 1", m.Name, seen[m.Name])
		}
	}
}

func TestGuideMarkdownHeadings(t *testing.T) {
	doc := GuideMarkdown()
	if !strings.HasPrefix(doc, "# Dream Metrics Guide") {
		t.Fatal("guide should open with its title")
	}
	for _, g := range guideGroups {
		if !strings.Contains(doc, "\n## "+g.title+"\n") {
			t.Errorf("missing group heading %q", g.title)
		}
		marker := strings.Repeat("#", g.level) + " "
		for _, name := range g.members {
			m, ok := ByName(name)
			if !ok {
				continue
			}
			heading := "\n" + marker + m.HeadingText() + "\n"
			if n := strings.Count(doc, heading); n != 1 {
				t.Errorf("heading for %q appears %d times, want 1", name, n)
			}
		}
	}
	if !strings.Contains(doc, "## Keeping the Habit") {
		t.Error("practice section missing")
	}
}

func TestGuideMarkdownAnnotates(t *testing.T) {
	reg := guide.TerminalIcons()
	region := guide.NewLineRegion(GuideMarkdown())
	guide.NewAnnotator().Annotate(region, GuideRules(), reg)
	out := region.String()

	for _, m := range Catalog() {
		icon, _ := reg.Resolve(m.Icon)
		if !strings.Contains(out, icon+" "+m.Name) {
			t.Errorf("%s: annotated guide lacks %q before its heading", m.Name, icon)
		}
	}

	// Practice headings match no rule and must pass through untouched.
	if !strings.Contains(out, "### Morning Routine") {
		t.Error("non-metric heading should pass through undecorated")
	}
	if !strings.Contains(out, "### When Recall Collapses") {
		t.Error("non-metric heading should pass through undecorated")
	}
}
