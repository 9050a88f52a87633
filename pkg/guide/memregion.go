package guide

// MemHeading is an in-memory heading node. It backs MemRegion and records
// prepended decorations so callers can inspect exactly what the annotator
// inserted.
type MemHeading struct {
	Lvl         int
	Label       string
	Decorations []string
}

func (h *MemHeading) Level() int   { return h.Lvl }
func (h *MemHeading) Text() string { return h.Label }

func (h *MemHeading) Prepend(decoration string) {
	h.Decorations = append([]string{decoration}, h.Decorations...)
}

// MemRegion is an in-memory Region. It stands in for a rendered document in
// tests and anywhere annotation output is inspected without a real renderer.
type MemRegion struct {
	Items []*MemHeading
}

// AddHeading appends a heading in document order and returns it.
func (r *MemRegion) AddHeading(level int, text string) *MemHeading {
	h := &MemHeading{Lvl: level, Label: text}
	r.Items = append(r.Items, h)
	return h
}

func (r *MemRegion) Headings() []Heading {
	out := make([]Heading, len(r.Items))
	for i, h := range r.Items {
		out[i] = h
	}
	return out
}
