package ui

import (
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mistvale/dreamscope/pkg/guide"
	"github.com/mistvale/dreamscope/pkg/metric"
)

// guideFocus tracks which footer button has focus.
type guideFocus int

const (
	focusGuideOK guideFocus = iota
	focusGuideHub
)

// GuideModel is the metrics guide overlay. Each open builds a fresh model:
// the guide source is assembled, its metric headings annotated with icons,
// and the result rendered once. The annotation step runs exactly once per
// open, so reopening the guide never stacks decorations.
type GuideModel struct {
	theme  Theme
	logger *log.Logger

	// annotated is the guide markdown after heading annotation; body is the
	// glamour-rendered text the view scrolls through. Both stay empty when
	// the open boundary tripped, which leaves the title and button row as
	// the whole dialog.
	annotated string
	body      string

	scrollOffset int
	width        int
	height       int

	markdownRenderer *MarkdownRenderer

	focus       guideFocus
	shouldClose bool
	wantHub     bool
}

// NewGuideModel opens the metrics guide with the default logger.
func NewGuideModel(theme Theme) GuideModel {
	return NewGuideModelWithLogger(theme, log.Default())
}

// NewGuideModelWithLogger opens the metrics guide, reporting annotation and
// open failures through the given logger.
func NewGuideModelWithLogger(theme Theme, logger *log.Logger) GuideModel {
	return newGuideModel(theme, logger, metric.GuideMarkdown)
}

// newGuideModel is the shared constructor; source builds the raw guide
// markdown and is swappable so tests can exercise the open boundary.
func newGuideModel(theme Theme, logger *log.Logger, source func() string) GuideModel {
	if logger == nil {
		logger = log.Default()
	}

	m := GuideModel{
		theme:            theme,
		logger:           logger,
		width:            80,
		height:           24,
		focus:            focusGuideOK,
		markdownRenderer: NewMarkdownRendererWithTheme(guideContentWidth(80), theme),
	}

	m.annotated = m.buildAnnotated(source)
	if m.annotated != "" {
		out, err := m.markdownRenderer.Render(m.annotated)
		if err != nil {
			logger.Printf("[UI] metrics guide render degraded to raw markdown: %v", err)
			m.body = m.annotated
		} else {
			m.body = strings.TrimSpace(out)
		}
	}
	return m
}

// buildAnnotated assembles the guide source and decorates its metric
// headings. This is the dialog-open boundary: whatever goes wrong in here is
// logged under the UI category and the dialog still opens, with the body
// dropped rather than the overlay refusing to appear.
func (m *GuideModel) buildAnnotated(source func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Printf("[UI] metrics guide content failed: %v", r)
			out = ""
		}
	}()

	region := guide.NewLineRegion(source())
	ann := guide.NewAnnotator()
	ann.SetLogger(m.logger)
	// The theme is the icon registry here; absent icons are logged inside
	// Annotate and the heading is left bare.
	ann.Annotate(region, metric.GuideRules(), m.theme)
	return region.String()
}

// Init initializes the guide model.
func (m GuideModel) Init() tea.Cmd {
	return nil
}

// Update handles keyboard input for the guide overlay.
func (m GuideModel) Update(msg tea.Msg) (GuideModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			m.shouldClose = true
			return m, nil

		case "tab", "shift+tab":
			if m.focus == focusGuideOK {
				m.focus = focusGuideHub
			} else {
				m.focus = focusGuideOK
			}
			return m, nil

		case "left", "h":
			m.focus = focusGuideOK
			return m, nil
		case "right", "l":
			m.focus = focusGuideHub
			return m, nil

		case "enter", " ":
			if m.focus == focusGuideHub {
				m.wantHub = true
			}
			m.shouldClose = true
			return m, nil
		}
		return m.handleScrollKeys(msg), nil
	}
	return m, nil
}

// handleScrollKeys moves the content viewport. Scrolling works regardless of
// which button has focus.
func (m GuideModel) handleScrollKeys(msg tea.KeyMsg) GuideModel {
	switch msg.String() {
	case "j", "down":
		m.scrollOffset++
	case "k", "up":
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}

	case "ctrl+d":
		m.scrollOffset += m.visibleHeight() / 2
	case "ctrl+u":
		m.scrollOffset -= m.visibleHeight() / 2
		if m.scrollOffset < 0 {
			m.scrollOffset = 0
		}

	case "g", "home":
		m.scrollOffset = 0
	case "G", "end":
		m.scrollOffset = 1 << 20 // clamped in View()
	}
	return m
}

// View renders the guide overlay.
func (m GuideModel) View() string {
	r := m.theme.Renderer
	contentWidth := guideContentWidth(m.width)

	var b strings.Builder

	titleStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)
	b.WriteString(titleStyle.Render("👁 Dream Metrics Guide"))
	b.WriteString("\n")

	sepStyle := r.NewStyle().Foreground(m.theme.Border)
	b.WriteString(sepStyle.Render(strings.Repeat("─", contentWidth+4)))
	b.WriteString("\n")

	if m.body != "" {
		b.WriteString(m.renderBody())
		b.WriteString("\n")
		b.WriteString(sepStyle.Render(strings.Repeat("─", contentWidth+4)))
		b.WriteString("\n")
	}

	b.WriteString(m.renderButtons())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(1, 2).
		Width(m.width).
		MaxHeight(m.height)

	return modalStyle.Render(b.String())
}

// renderBody returns the visible window of the rendered guide with scroll
// hints above and below.
func (m GuideModel) renderBody() string {
	r := m.theme.Renderer

	lines := strings.Split(m.body, "\n")
	visibleHeight := m.visibleHeight()

	maxScroll := len(lines) - visibleHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scrollOffset > maxScroll {
		m.scrollOffset = maxScroll
	}

	endLine := m.scrollOffset + visibleHeight
	if endLine > len(lines) {
		endLine = len(lines)
	}
	content := strings.Join(lines[m.scrollOffset:endLine], "\n")

	if m.scrollOffset > 0 {
		content = r.NewStyle().Foreground(m.theme.Muted).Render("↑ more above") + "\n" + content
	}
	if endLine < len(lines) {
		content = content + "\n" + r.NewStyle().Foreground(m.theme.Muted).Render("↓ more below")
	}
	return content
}

// renderButtons renders the OK / Open Metrics Hub button row with the
// focused button highlighted.
func (m GuideModel) renderButtons() string {
	r := m.theme.Renderer

	focused := r.NewStyle().
		Bold(true).
		Foreground(m.theme.Primary).
		Background(m.theme.Highlight)
	blurred := r.NewStyle().Foreground(m.theme.Subtext)

	ok := blurred.Render("[ OK ]")
	if m.focus == focusGuideOK {
		ok = focused.Render("[ OK ]")
	}
	hub := blurred.Render("[ Open Metrics Hub ]")
	if m.focus == focusGuideHub {
		hub = focused.Render("[ Open Metrics Hub ]")
	}
	return ok + "  " + hub
}

// renderFooter renders the key hints line.
func (m GuideModel) renderFooter() string {
	r := m.theme.Renderer

	keyStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)
	descStyle := r.NewStyle().Foreground(m.theme.Subtext)

	hints := []string{
		keyStyle.Render("Tab") + descStyle.Render(" buttons"),
		keyStyle.Render("Enter") + descStyle.Render(" select"),
		keyStyle.Render("j/k") + descStyle.Render(" scroll"),
		keyStyle.Render("Ctrl+d/u") + descStyle.Render(" half-page"),
		keyStyle.Render("q") + descStyle.Render(" close"),
	}

	sep := r.NewStyle().Foreground(m.theme.Muted).Render(" │ ")
	return strings.Join(hints, sep)
}

// CenterGuide returns the guide view centered in the terminal.
func (m GuideModel) CenterGuide(termWidth, termHeight int) string {
	overlay := m.View()

	padTop := (termHeight - lipgloss.Height(overlay)) / 2
	padLeft := (termWidth - lipgloss.Width(overlay)) / 2
	if padTop < 0 {
		padTop = 0
	}
	if padLeft < 0 {
		padLeft = 0
	}

	return m.theme.Renderer.NewStyle().
		MarginTop(padTop).
		MarginLeft(padLeft).
		Render(overlay)
}

// SetSize sets the overlay dimensions and re-renders the body at the new
// wrap width.
func (m *GuideModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	m.markdownRenderer.SetWidthWithTheme(guideContentWidth(width), m.theme)
	if m.annotated == "" {
		return
	}
	out, err := m.markdownRenderer.Render(m.annotated)
	if err != nil {
		m.body = m.annotated
		return
	}
	m.body = strings.TrimSpace(out)
}

// ShouldClose returns true if the user dismissed the guide.
func (m GuideModel) ShouldClose() bool {
	return m.shouldClose
}

// WantHub returns true if the user asked for the metrics hub on close.
func (m GuideModel) WantHub() bool {
	return m.wantHub
}

// ResetClose resets the close and hand-off flags (call after handling them).
func (m *GuideModel) ResetClose() {
	m.shouldClose = false
	m.wantHub = false
}

func (m GuideModel) visibleHeight() int {
	h := m.height - 10 // border, padding, title, buttons, footer
	if h < 5 {
		h = 5
	}
	return h
}

func guideContentWidth(width int) int {
	w := width - 6 // padding and borders
	if w < 40 {
		w = 40
	}
	return w
}
