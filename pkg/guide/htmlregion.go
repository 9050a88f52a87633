package guide

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLRegion adapts a parsed HTML document to the Region capability. The
// HTML guide exporter renders markdown to HTML first, then annotates the
// parsed document so headings carry inline SVG icons.
type HTMLRegion struct {
	doc      *goquery.Document
	headings []*htmlHeading
}

type htmlHeading struct {
	sel   *goquery.Selection
	level int
	text  string
}

func (h *htmlHeading) Level() int   { return h.level }
func (h *htmlHeading) Text() string { return h.text }

func (h *htmlHeading) Prepend(decoration string) {
	h.sel.PrependHtml(decoration + " ")
}

// NewHTMLRegion parses an HTML fragment and collects its h3 and h4 elements
// in document order. Heading text is captured at parse time so later
// decorations do not leak into Text.
func NewHTMLRegion(fragment string) (*HTMLRegion, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}

	r := &HTMLRegion{doc: doc}
	doc.Find("h3, h4").Each(func(_ int, sel *goquery.Selection) {
		level := 3
		if goquery.NodeName(sel) == "h4" {
			level = 4
		}
		r.headings = append(r.headings, &htmlHeading{
			sel:   sel,
			level: level,
			text:  strings.TrimSpace(sel.Text()),
		})
	})
	return r, nil
}

func (r *HTMLRegion) Headings() []Heading {
	out := make([]Heading, len(r.headings))
	for i, h := range r.headings {
		out[i] = h
	}
	return out
}

// HTML returns the annotated document body.
func (r *HTMLRegion) HTML() (string, error) {
	return r.doc.Find("body").Html()
}
