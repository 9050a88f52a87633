package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mistvale/dreamscope/pkg/analysis"
	"github.com/mistvale/dreamscope/pkg/config"
	"github.com/mistvale/dreamscope/pkg/metric"
	"github.com/mistvale/dreamscope/pkg/model"
)

type hubTab int

const (
	hubTabOverview hubTab = iota
	hubTabMetrics
	hubTabSettings
)

var hubTabNames = []string{"Overview", "Metrics", "Settings"}

// HubModel is the metrics hub overlay: a tabbed dialog with a vault
// overview, the full metric catalog, and a settings form that writes back
// to the config. The guide dialog hands off here.
type HubModel struct {
	theme   Theme
	cfg     *config.Config
	entries []model.Entry

	tab      hubTab
	selected int // cursor in the metrics table
	status   string

	// Settings form state. The bound fields live on the model so a
	// completed form can be applied to the config in one step.
	form         *huh.Form
	vaultPath    string
	enabled      []string
	checkUpdates bool
	applied      bool

	width       int
	height      int
	shouldClose bool
}

// NewHubModel creates the hub overlay over the current config and entries.
func NewHubModel(theme Theme, cfg *config.Config, entries []model.Entry) HubModel {
	return HubModel{
		theme:   theme,
		cfg:     cfg,
		entries: entries,
		tab:     hubTabOverview,
		width:   84,
		height:  26,
	}
}

// Init initializes the hub model.
func (m HubModel) Init() tea.Cmd {
	return nil
}

// Update handles input for the hub. While the settings form is active it
// owns every key except esc.
func (m HubModel) Update(msg tea.Msg) (HubModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "esc" {
			m.shouldClose = true
			return m, nil
		}

		if !m.formActive() {
			switch keyMsg.String() {
			case "1":
				m.tab = hubTabOverview
				return m, nil
			case "2":
				m.tab = hubTabMetrics
				return m, nil
			case "3":
				return m.openSettings()
			case "tab", "]", "right":
				return m.nextTab()
			case "shift+tab", "[", "left":
				return m.prevTab()
			}

			if m.tab == hubTabMetrics {
				return m.handleMetricsKeys(keyMsg), nil
			}
			return m, nil
		}
	}

	// Settings form owns the message stream until it completes.
	if m.form != nil && m.tab == hubTabSettings {
		fm, cmd := m.form.Update(msg)
		if f, ok := fm.(*huh.Form); ok {
			m.form = f
		}
		if m.form.State == huh.StateCompleted && !m.applied {
			m.applySettings()
		}
		return m, cmd
	}
	return m, nil
}

func (m HubModel) formActive() bool {
	return m.tab == hubTabSettings && m.form != nil && m.form.State == huh.StateNormal
}

func (m HubModel) nextTab() (HubModel, tea.Cmd) {
	switch m.tab {
	case hubTabOverview:
		m.tab = hubTabMetrics
		return m, nil
	case hubTabMetrics:
		return m.openSettings()
	default:
		m.tab = hubTabOverview
		return m, nil
	}
}

func (m HubModel) prevTab() (HubModel, tea.Cmd) {
	switch m.tab {
	case hubTabOverview:
		return m.openSettings()
	case hubTabSettings:
		m.tab = hubTabMetrics
		return m, nil
	default:
		m.tab = hubTabOverview
		return m, nil
	}
}

// openSettings switches to the settings tab with a fresh form seeded from
// the current config.
func (m HubModel) openSettings() (HubModel, tea.Cmd) {
	m.tab = hubTabSettings
	m.applied = false
	m.vaultPath = m.cfg.VaultPath
	m.enabled = append([]string(nil), m.cfg.EnabledMetrics...)
	m.checkUpdates = m.cfg.CheckUpdates

	opts := make([]huh.Option[string], 0, len(metric.Names()))
	for _, name := range metric.Names() {
		opts = append(opts, huh.NewOption(name, name).Selected(containsName(m.enabled, name)))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Vault path").
				Placeholder("~/dreams").
				Value(&m.vaultPath),
			huh.NewMultiSelect[string]().
				Title("Enabled metrics").
				Options(opts...).
				Value(&m.enabled),
			huh.NewConfirm().
				Title("Check for updates on start").
				Value(&m.checkUpdates),
		),
	).WithTheme(huh.ThemeDracula()).WithWidth(hubContentWidth(m.width))

	return m, m.form.Init()
}

// applySettings writes the completed form back to the config. Metric order
// is normalized to catalog order so the config round-trips stably.
func (m *HubModel) applySettings() {
	m.cfg.VaultPath = strings.TrimSpace(m.vaultPath)
	ordered := make([]string, 0, len(m.enabled))
	for _, name := range metric.Names() {
		if containsName(m.enabled, name) {
			ordered = append(ordered, name)
		}
	}
	m.cfg.EnabledMetrics = ordered
	m.cfg.CheckUpdates = m.checkUpdates
	m.applied = true
	m.status = "Settings applied"
}

func (m HubModel) handleMetricsKeys(msg tea.KeyMsg) HubModel {
	count := len(metric.Catalog())
	switch msg.String() {
	case "j", "down":
		if m.selected < count-1 {
			m.selected++
		}
	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
	case "g", "home":
		m.selected = 0
	case "G", "end":
		m.selected = count - 1
	case "c":
		def := metricDefinition(metric.Catalog()[m.selected])
		if err := clipboard.WriteAll(def); err != nil {
			m.status = "Copy failed: " + err.Error()
		} else {
			m.status = fmt.Sprintf("Copied %q definition", metric.Catalog()[m.selected].Name)
		}
	}
	return m
}

// View renders the hub overlay.
func (m HubModel) View() string {
	r := m.theme.Renderer
	contentWidth := hubContentWidth(m.width)

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	sepStyle := r.NewStyle().Foreground(m.theme.Border)
	b.WriteString(sepStyle.Render(strings.Repeat("─", contentWidth+4)))
	b.WriteString("\n")

	switch m.tab {
	case hubTabOverview:
		b.WriteString(m.renderOverview())
	case hubTabMetrics:
		b.WriteString(m.renderMetrics(contentWidth))
	case hubTabSettings:
		b.WriteString(m.renderSettings())
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(r.NewStyle().Foreground(m.theme.Positive).Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(1, 2).
		Width(m.width).
		MaxHeight(m.height)

	return modalStyle.Render(b.String())
}

func (m HubModel) renderTabs() string {
	r := m.theme.Renderer

	active := m.theme.Header
	inactive := r.NewStyle().Foreground(m.theme.Subtext).Padding(0, 1)

	parts := make([]string, 0, len(hubTabNames))
	for i, name := range hubTabNames {
		if hubTab(i) == m.tab {
			parts = append(parts, active.Render(name))
		} else {
			parts = append(parts, inactive.Render(name))
		}
	}
	return strings.Join(parts, " ")
}

func (m HubModel) renderOverview() string {
	r := m.theme.Renderer

	labelStyle := r.NewStyle().Foreground(m.theme.Subtext).Width(18)
	valueStyle := r.NewStyle().Foreground(m.theme.Primary).Bold(true)

	lucid := 0
	words := 0
	symbols := map[string]struct{}{}
	for i := range m.entries {
		if m.entries[i].Lucid() {
			lucid++
		}
		words += m.entries[i].WordCount
		for _, s := range m.entries[i].Symbols {
			symbols[s] = struct{}{}
		}
	}

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(row("Vault", m.cfg.VaultPath))
	b.WriteString(row("Entries", fmt.Sprintf("%d", len(m.entries))))
	if len(m.entries) > 0 {
		b.WriteString(row("Lucid", fmt.Sprintf("%d (%.0f%%)", lucid, 100*float64(lucid)/float64(len(m.entries)))))
	} else {
		b.WriteString(row("Lucid", "0"))
	}
	b.WriteString(row("Words recorded", fmt.Sprintf("%d", words)))
	b.WriteString(row("Distinct symbols", fmt.Sprintf("%d", len(symbols))))
	b.WriteString(row("Enabled metrics", fmt.Sprintf("%d of %d", len(m.cfg.EnabledMetrics), len(metric.Catalog()))))
	b.WriteString(labelStyle.Render("Last 14 days") + m.renderRecallStrip(14) + "\n")
	return b.String()
}

// renderRecallStrip draws one cell per trailing day, shaded by that day's
// best recall score. Days without an entry stay dark.
func (m HubModel) renderRecallStrip(days int) string {
	best := make(map[string]float64, days)
	for i := range m.entries {
		e := &m.entries[i]
		if e.Date.IsZero() {
			continue
		}
		key := e.Date.Format("2006-01-02")
		if score := analysis.ComputeRecallScore(e).Score; score > best[key] {
			best[key] = score
		}
	}

	r := m.theme.Renderer
	var b strings.Builder
	day := time.Now().AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		bg, fg := GetHeatGradientColorBg(best[day.Format("2006-01-02")])
		b.WriteString(r.NewStyle().Background(bg).Foreground(fg).Render("▪ "))
		day = day.AddDate(0, 0, 1)
	}
	return b.String()
}

// renderMetrics renders the catalog table with a cursor, windowed to the
// overlay height.
func (m HubModel) renderMetrics(contentWidth int) string {
	r := m.theme.Renderer

	cursorStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary).Background(m.theme.Highlight)
	rowStyle := r.NewStyle().Foreground(m.theme.Subtext)
	kindStyle := r.NewStyle().Foreground(m.theme.Secondary)

	cat := metric.Catalog()
	visible := m.height - 12
	if visible < 5 {
		visible = 5
	}

	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := start + visible
	if end > len(cat) {
		end = len(cat)
	}

	nameWidth := 30
	previewWidth := contentWidth - nameWidth - 16
	if previewWidth < 10 {
		previewWidth = 10
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString(r.NewStyle().Foreground(m.theme.Muted).Render("↑ more above"))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		mt := cat[i]
		glyph, _ := m.theme.GetMetricIcon(mt.Icon)

		preview := mt.Description
		if len(mt.Rubric) > 0 {
			preview = mt.Rubric[len(mt.Rubric)-1]
		}
		preview = runewidth.Truncate(preview, previewWidth, "…")

		name := runewidth.FillRight(runewidth.Truncate(mt.HeadingText(), nameWidth, "…"), nameWidth)
		line := fmt.Sprintf("%s %s %s %s", glyph, name, kindStyle.Render(runewidth.FillRight(string(mt.Kind), 8)), preview)

		if i == m.selected {
			b.WriteString(cursorStyle.Render("→ " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if end < len(cat) {
		b.WriteString(r.NewStyle().Foreground(m.theme.Muted).Render("↓ more below"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m HubModel) renderSettings() string {
	if m.form == nil {
		return m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext).
			Render("Press 3 to edit settings.")
	}
	if m.form.State == huh.StateCompleted {
		return m.theme.Renderer.NewStyle().Foreground(m.theme.Positive).
			Render("Settings saved to the running session.")
	}
	return m.form.View()
}

func (m HubModel) renderFooter() string {
	r := m.theme.Renderer

	keyStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)
	descStyle := r.NewStyle().Foreground(m.theme.Subtext)

	var hints []string
	switch {
	case m.formActive():
		hints = []string{
			keyStyle.Render("Enter") + descStyle.Render(" next field"),
			keyStyle.Render("Esc") + descStyle.Render(" close"),
		}
	case m.tab == hubTabMetrics:
		hints = []string{
			keyStyle.Render("j/k") + descStyle.Render(" select"),
			keyStyle.Render("c") + descStyle.Render(" copy definition"),
			keyStyle.Render("Tab") + descStyle.Render(" next tab"),
			keyStyle.Render("Esc") + descStyle.Render(" close"),
		}
	default:
		hints = []string{
			keyStyle.Render("1/2/3") + descStyle.Render(" tabs"),
			keyStyle.Render("Tab") + descStyle.Render(" next tab"),
			keyStyle.Render("Esc") + descStyle.Render(" close"),
		}
	}

	sep := r.NewStyle().Foreground(m.theme.Muted).Render(" │ ")
	return strings.Join(hints, sep)
}

// CenterHub returns the hub view centered in the terminal.
func (m HubModel) CenterHub(termWidth, termHeight int) string {
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

// SetSize clamps the overlay to the terminal.
func (m *HubModel) SetSize(termWidth, termHeight int) {
	w := termWidth - 10
	if w < 60 {
		w = 60
	}
	if w > 96 {
		w = 96
	}
	m.width = w

	h := termHeight - 6
	if h < 16 {
		h = 16
	}
	if h > 30 {
		h = 30
	}
	m.height = h
}

// ShouldClose returns true if the user dismissed the hub.
func (m HubModel) ShouldClose() bool {
	return m.shouldClose
}

// ResetClose resets the close flag (call after handling close).
func (m *HubModel) ResetClose() {
	m.shouldClose = false
}

// SettingsApplied reports whether a completed settings form has been written
// back to the config, so the caller can persist it.
func (m HubModel) SettingsApplied() bool {
	return m.applied
}

// metricDefinition formats one catalog metric the way the copy action puts
// it on the clipboard.
func metricDefinition(mt model.Metric) string {
	var b strings.Builder
	b.WriteString(mt.HeadingText())
	b.WriteString("\n\n")
	b.WriteString(mt.Description)
	if len(mt.Rubric) > 0 {
		b.WriteString("\n")
		for i, line := range mt.Rubric {
			fmt.Fprintf(&b, "\n%d. %s", mt.Min+i, line)
		}
	}
	return b.String()
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func hubContentWidth(width int) int {
	w := width - 6
	if w < 40 {
		w = 40
	}
	return w
}
