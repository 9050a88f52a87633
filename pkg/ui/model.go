package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mistvale/dreamscope/pkg/analysis"
	"github.com/mistvale/dreamscope/pkg/config"
	"github.com/mistvale/dreamscope/pkg/journal"
	"github.com/mistvale/dreamscope/pkg/metric"
	"github.com/mistvale/dreamscope/pkg/model"
)

// Filter names accepted by SetFilter. Any entry kind string is also
// accepted and matches that kind only.
const (
	FilterAll   = "all"
	FilterLucid = "lucid"
)

// reloadMsg asks the model to reload the vault from disk. It is issued
// by the watcher pump and by the manual reload key.
type reloadMsg struct{}

// entriesLoadedMsg carries the result of an asynchronous vault load.
type entriesLoadedMsg struct {
	entries []model.Entry
	summary journal.LoadSummary
	err     error
}

// UpdateNoticeMsg delivers a release notice once the background update
// check completes. Sent into the program from outside the Update loop.
type UpdateNoticeMsg struct {
	Notice string
}

// Model is the root application model: an entry list on the left, a
// stats or entry detail pane on the right, and modal overlays for the
// metrics guide and the hub.
type Model struct {
	cfg    *config.Config
	logger *log.Logger
	theme  Theme

	entries  []model.Entry
	filtered []model.Entry
	cursor   int
	filter   string

	stats        analysis.JournalStats
	recallByPath map[string]analysis.RecallScore
	avgRecall    float64
	drift        analysis.DriftSignals
	symbolStats  *analysis.SymbolStats
	insights     []analysis.Insight

	bookmarks *journal.BookmarkStore

	search       textinput.Model
	searchActive bool

	showDetail   bool
	detailScroll int
	detailPath   string
	detailBody   string

	md *MarkdownRenderer

	watchEvents  <-chan struct{}
	updateNotice string
	status       string
	loading      bool

	width  int
	height int

	guide *GuideModel
	hub   *HubModel
}

// NewModel builds the root model for the given entries. cfg and logger
// may be nil; defaults are used.
func NewModel(entries []model.Entry, cfg *config.Config, logger *log.Logger) Model {
	if cfg == nil {
		c := config.DefaultConfig()
		cfg = &c
	}
	if logger == nil {
		logger = log.Default()
	}
	theme := ThemeByName(cfg.Theme, lipgloss.DefaultRenderer())

	search := textinput.New()
	search.Placeholder = "title, symbol, character or tag"
	search.Prompt = "/ "
	search.CharLimit = 64
	search.Width = 32

	m := Model{
		cfg:    cfg,
		logger: logger,
		theme:  theme,
		filter: FilterAll,
		search: search,
		md:     NewMarkdownRendererWithTheme(64, theme),
		width:  100,
		height: 30,
	}
	m.setEntries(entries)
	return m
}

// SetWatchEvents attaches a watcher event channel. Each receive
// triggers a reload; the channel is re-armed after every event.
func (m *Model) SetWatchEvents(ch <-chan struct{}) {
	m.watchEvents = ch
}

// SetBookmarks attaches a bookmark store used by the pin key.
func (m *Model) SetBookmarks(bs *journal.BookmarkStore) {
	m.bookmarks = bs
}

// SetUpdateNotice sets the release notice shown in the status bar.
func (m *Model) SetUpdateNotice(notice string) {
	m.updateNotice = notice
}

// SetFilter sets the active kind filter and reapplies it.
func (m *Model) SetFilter(filter string) {
	m.filter = filter
	m.applyFilter()
}

// Filter returns the active kind filter.
func (m Model) Filter() string {
	return m.filter
}

// FilteredEntries returns the entries matching the current filter and
// search term, newest first.
func (m Model) FilteredEntries() []model.Entry {
	return m.filtered
}

// SelectedEntry returns the entry under the cursor.
func (m Model) SelectedEntry() (model.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return model.Entry{}, false
	}
	return m.filtered[m.cursor], true
}

// GuideOpen reports whether the metrics guide overlay is open.
func (m Model) GuideOpen() bool {
	return m.guide != nil
}

// HubOpen reports whether the hub overlay is open.
func (m Model) HubOpen() bool {
	return m.hub != nil
}

func (m *Model) setEntries(entries []model.Entry) {
	journal.SortEntries(entries)
	m.entries = entries

	now := time.Now()
	m.stats = analysis.ComputeStats(entries)
	m.drift = analysis.ComputeDriftSignals(entries, now)

	scores := analysis.ComputeRecallScores(entries)
	byPath := make(map[string]analysis.RecallScore, len(scores))
	sum := 0.0
	for _, s := range scores {
		byPath[s.Path] = s
		sum += s.Score
	}
	m.recallByPath = byPath
	m.avgRecall = 0
	if len(scores) > 0 {
		m.avgRecall = sum / float64(len(scores))
	}

	m.symbolStats = analysis.NewCachedAnalyzer(entries, analysis.GetGlobalCache()).AnalyzeAsync()
	m.insights = analysis.GenerateInsights(entries, m.symbolStats, now)

	m.applyFilter()
}

// applyFilter rebuilds the visible list. Entries stay chronological for
// the analysis code; the list shows newest first.
func (m *Model) applyFilter() {
	term := strings.ToLower(strings.TrimSpace(m.search.Value()))
	out := make([]model.Entry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if !m.matchesKind(e) {
			continue
		}
		if term != "" && !entryMatches(e, term) {
			continue
		}
		out = append(out, e)
	}
	m.filtered = out
	if m.cursor >= len(out) {
		m.cursor = len(out) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.invalidateDetail()
}

func (m Model) matchesKind(e model.Entry) bool {
	switch m.filter {
	case "", FilterAll:
		return true
	case FilterLucid:
		return e.Kind == model.KindLucid
	default:
		return string(e.Kind) == m.filter
	}
}

func entryMatches(e model.Entry, term string) bool {
	if strings.Contains(strings.ToLower(e.Title), term) {
		return true
	}
	for _, s := range e.Symbols {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	for _, c := range e.Characters {
		if strings.Contains(strings.ToLower(c), term) {
			return true
		}
	}
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}

func (m *Model) invalidateDetail() {
	m.detailPath = ""
	m.detailBody = ""
	m.detailScroll = 0
}

// refreshDetail renders the selected entry's detail document through
// the markdown renderer. A render failure is logged and the raw
// markdown shown instead.
func (m *Model) refreshDetail() {
	e, ok := m.SelectedEntry()
	if !ok {
		m.detailPath = ""
		m.detailBody = ""
		return
	}
	doc := m.buildEntryMarkdown(e)
	out, err := m.md.Render(doc)
	if err != nil {
		m.logger.Printf("[UI] detail render degraded to raw markdown for %s: %v", e.Path, err)
		out = doc
	}
	m.detailPath = e.Path
	m.detailBody = strings.TrimRight(out, "\n")
}

// Init arms the watcher pump when a channel is attached.
func (m Model) Init() tea.Cmd {
	if m.watchEvents != nil {
		return waitForChange(m.watchEvents)
	}
	return nil
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return reloadMsg{}
	}
}

func (m Model) loadCmd() tea.Cmd {
	root := m.cfg.JournalRoot()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		entries, results, err := journal.LoadVault(ctx, root)
		return entriesLoadedMsg{
			entries: entries,
			summary: journal.Summarize(results),
			err:     err,
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case reloadMsg:
		m.loading = true
		m.status = "Reloading journal…"
		cmds := []tea.Cmd{m.loadCmd()}
		if m.watchEvents != nil {
			cmds = append(cmds, waitForChange(m.watchEvents))
		}
		return m, tea.Batch(cmds...)

	case UpdateNoticeMsg:
		m.updateNotice = msg.Notice
		return m, nil

	case entriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "Reload failed: " + msg.err.Error()
			m.logger.Printf("[UI] reload failed: %v", msg.err)
			return m, nil
		}
		m.setEntries(msg.entries)
		if m.showDetail {
			m.refreshDetail()
		}
		if msg.summary.Failed > 0 {
			m.status = fmt.Sprintf("Loaded %d entries, %d skipped", msg.summary.Loaded, msg.summary.Failed)
		} else {
			m.status = fmt.Sprintf("Loaded %d entries", msg.summary.Loaded)
		}
		return m, nil
	}

	if m.guide != nil {
		return m.updateGuide(msg)
	}
	if m.hub != nil {
		return m.updateHub(msg)
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}
	return m, nil
}

func (m Model) updateGuide(msg tea.Msg) (tea.Model, tea.Cmd) {
	g, cmd := m.guide.Update(msg)
	m.guide = &g
	if g.ShouldClose() {
		wantHub := g.WantHub()
		m.guide = nil
		if wantHub {
			return m.openHub()
		}
	}
	return m, cmd
}

func (m Model) updateHub(msg tea.Msg) (tea.Model, tea.Cmd) {
	h, cmd := m.hub.Update(msg)
	m.hub = &h
	if h.ShouldClose() {
		applied := h.SettingsApplied()
		m.hub = nil
		if applied {
			m.status = "Settings updated"
			m.invalidateDetail()
		}
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchActive {
		return m.handleSearchKey(msg)
	}

	prevCursor := m.cursor

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		if m.showDetail {
			m.detailScroll++
		} else {
			m.moveCursor(1)
		}
	case "k", "up":
		if m.showDetail {
			if m.detailScroll > 0 {
				m.detailScroll--
			}
		} else {
			m.moveCursor(-1)
		}
	case "ctrl+d":
		if m.showDetail {
			m.detailScroll += m.sidebarHeight() / 2
		} else {
			m.moveCursor(m.listHeight() / 2)
		}
	case "ctrl+u":
		if m.showDetail {
			m.detailScroll -= m.sidebarHeight() / 2
			if m.detailScroll < 0 {
				m.detailScroll = 0
			}
		} else {
			m.moveCursor(-m.listHeight() / 2)
		}
	case "home":
		m.cursor = 0
		m.invalidateDetail()
	case "G", "end":
		m.cursor = len(m.filtered) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.invalidateDetail()

	case "enter":
		if len(m.filtered) > 0 {
			m.showDetail = true
			m.detailScroll = 0
			m.refreshDetail()
		}
	case "esc":
		switch {
		case m.showDetail:
			m.showDetail = false
		case m.search.Value() != "":
			m.search.SetValue("")
			m.applyFilter()
		}

	case "/":
		m.searchActive = true
		return m, m.search.Focus()

	case "a":
		m.SetFilter(FilterAll)
		m.status = "Showing all entries"
	case "L":
		if m.filter == FilterLucid {
			m.SetFilter(FilterAll)
			m.status = "Showing all entries"
		} else {
			m.SetFilter(FilterLucid)
			m.status = "Showing lucid dreams only"
		}

	case "g":
		return m.openGuide()
	case "M":
		return m.openHub()

	case "r":
		return m, func() tea.Msg { return reloadMsg{} }

	case "b":
		m.pinSelected()
	}

	if m.showDetail && m.cursor != prevCursor {
		m.refreshDetail()
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchActive = false
		m.search.Blur()
		m.applyFilter()
		return m, nil
	case "esc":
		m.searchActive = false
		m.search.Blur()
		m.search.SetValue("")
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.invalidateDetail()
}

func (m Model) openGuide() (tea.Model, tea.Cmd) {
	g := NewGuideModelWithLogger(m.theme, m.logger)
	g.SetSize(m.guideSize())
	m.guide = &g
	return m, nil
}

func (m Model) openHub() (tea.Model, tea.Cmd) {
	h := NewHubModel(m.theme, m.cfg, m.entries)
	h.SetSize(m.width, m.height)
	m.hub = &h
	return m, nil
}

func (m Model) guideSize() (int, int) {
	w := m.width - 14
	if w < 56 {
		w = 56
	}
	if w > 92 {
		w = 92
	}
	h := m.height - 4
	if h < 14 {
		h = 14
	}
	if h > 30 {
		h = 30
	}
	return w, h
}

func (m *Model) pinSelected() {
	if m.bookmarks == nil {
		m.status = "Bookmarks are not available"
		return
	}
	e, ok := m.SelectedEntry()
	if !ok {
		return
	}
	symbol := ""
	if len(e.Symbols) > 0 {
		symbol = e.Symbols[0]
	}
	if m.bookmarks.Has(e.Path, symbol) {
		m.status = "Already pinned"
		return
	}
	recall := 0.0
	if s, ok := m.recallByPath[e.Path]; ok {
		recall = s.Score
	}
	if err := m.bookmarks.Pin(e.Path, symbol, e.Title, recall); err != nil {
		m.status = "Pin failed: " + err.Error()
		m.logger.Printf("[UI] pin failed for %s: %v", e.Path, err)
		return
	}
	if symbol != "" {
		m.status = fmt.Sprintf("Pinned %q from %s", symbol, e.Title)
	} else {
		m.status = "Pinned " + e.Title
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.md.SetWidthWithTheme(m.sidebarWidth()-4, m.theme)
	m.invalidateDetail()
	if m.showDetail {
		m.refreshDetail()
	}
	if m.guide != nil {
		m.guide.SetSize(m.guideSize())
	}
	if m.hub != nil {
		m.hub.SetSize(width, height)
	}
}

func (m Model) listWidth() int {
	w := m.width * 2 / 5
	if w < 30 {
		w = 30
	}
	if w > 56 {
		w = 56
	}
	return w
}

func (m Model) sidebarWidth() int {
	w := m.width - m.listWidth() - 1
	if w < 30 {
		w = 30
	}
	return w
}

func (m Model) listHeight() int {
	h := m.height - 6
	if h < 4 {
		h = 4
	}
	return h
}

func (m Model) sidebarHeight() int {
	return m.listHeight()
}

func (m Model) View() string {
	if m.guide != nil {
		return m.guide.CenterGuide(m.width, m.height)
	}
	if m.hub != nil {
		return m.hub.CenterHub(m.width, m.height)
	}

	header := m.renderHeader()
	left := m.renderList()
	var right string
	if m.showDetail {
		right = m.renderEntryDetail()
	} else {
		right = m.renderStatsPanel()
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	status := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (m Model) renderHeader() string {
	title := m.theme.Header.Render("🌙 dreamscope")
	vault := m.theme.Base.Foreground(m.theme.Subtext).Render(m.cfg.VaultPath)

	var filterBadge string
	if m.filter != FilterAll && m.filter != "" {
		filterBadge = m.theme.Base.
			Foreground(m.theme.Lucid).
			Bold(true).
			Render(" [" + m.filter + "]")
	}

	line := title + "  " + vault + filterBadge

	if m.searchActive || m.search.Value() != "" {
		return line + "\n" + m.search.View()
	}
	return line + "\n"
}

func (m Model) renderList() string {
	width := m.listWidth()
	height := m.listHeight()

	if len(m.filtered) == 0 {
		empty := m.theme.Base.
			Foreground(m.theme.Subtext).
			Padding(1, 2).
			Render("No entries match.\nPress a to clear the filter.")
		return lipgloss.NewStyle().Width(width).Height(height).Render(empty)
	}

	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := start + height
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	cursorStyle := m.theme.Base.Bold(true).Foreground(m.theme.Primary).Background(m.theme.Highlight)
	rowStyle := m.theme.Base

	var b strings.Builder
	for i := start; i < end; i++ {
		e := m.filtered[i]
		icon, iconColor := m.theme.GetKindIcon(e.Kind)

		date := "????-??-??"
		if !e.Date.IsZero() {
			date = e.Date.Format("2006-01-02")
		}

		titleWidth := width - 20
		if titleWidth < 10 {
			titleWidth = 10
		}
		title := runewidth.FillRight(runewidth.Truncate(e.Title, titleWidth, "…"), titleWidth)

		heat := m.theme.Base.Foreground(colorMuted).Render("·")
		if s, ok := m.recallByPath[e.Path]; ok {
			heat = m.theme.Base.Foreground(GetHeatGradientColor(s.Score)).Render("●")
		}

		line := m.theme.Base.Foreground(iconColor).Render(icon) + " " +
			m.theme.Base.Foreground(m.theme.Subtext).Render(date) + " " + heat + " "
		if i == m.cursor {
			b.WriteString("→ " + line + cursorStyle.Render(title))
		} else {
			b.WriteString("  " + line + rowStyle.Render(title))
		}
		b.WriteString("\n")
	}

	if end < len(m.filtered) {
		b.WriteString(m.theme.Base.Foreground(m.theme.Muted).Render(fmt.Sprintf("  ↓ %d more", len(m.filtered)-end)))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.TrimRight(b.String(), "\n"))
}

// renderEntryDetail renders the selected entry's recorded data as a
// markdown document. Entry bodies are not retained by the loader, so
// the pane shows what the journal recorded about the dream rather
// than its prose.
func (m Model) renderEntryDetail() string {
	e, ok := m.SelectedEntry()
	if !ok {
		return m.theme.Base.Foreground(m.theme.Subtext).Render("Nothing selected.")
	}

	body := m.detailBody
	if m.detailPath != e.Path || body == "" {
		doc := m.buildEntryMarkdown(e)
		if out, err := m.md.Render(doc); err == nil {
			body = strings.TrimRight(out, "\n")
		} else {
			body = doc
		}
	}

	lines := strings.Split(body, "\n")
	height := m.sidebarHeight()
	scroll := m.detailScroll
	if scroll > len(lines)-height {
		scroll = len(lines) - height
	}
	if scroll < 0 {
		scroll = 0
	}
	end := scroll + height
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	if scroll > 0 {
		b.WriteString(m.theme.Base.Foreground(m.theme.Muted).Render("↑ more above") + "\n")
	}
	b.WriteString(strings.Join(lines[scroll:end], "\n"))
	if end < len(lines) {
		b.WriteString("\n" + m.theme.Base.Foreground(m.theme.Muted).Render("↓ more below"))
	}

	return lipgloss.NewStyle().Width(m.sidebarWidth()).Render(b.String())
}

func (m Model) buildEntryMarkdown(e model.Entry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", e.Title)
	date := "unknown date"
	if !e.Date.IsZero() {
		date = e.Date.Format("Monday, 2 January 2006")
	}
	fmt.Fprintf(&b, "**%s** · %s · %d words\n\n", e.Kind, date, e.WordCount)

	if s, ok := m.recallByPath[e.Path]; ok {
		fmt.Fprintf(&b, "Recall score **%.2f** — sensory %.2f, emotional %.2f, continuity %.2f, confidence %.2f, detail %.2f\n\n",
			s.Score,
			s.Breakdown.SensoryNorm,
			s.Breakdown.EmotionalNorm,
			s.Breakdown.ContinuityNorm,
			s.Breakdown.ConfidenceNorm,
			s.Breakdown.DetailNorm)
	}

	if len(e.Metrics) > 0 {
		b.WriteString("## Metrics\n\n")
		for _, name := range metric.Names() {
			v, ok := e.Metrics[name]
			if !ok {
				continue
			}
			b.WriteString("- " + formatMetricLine(name, v) + "\n")
		}
		b.WriteString("\n")
	}

	if len(e.Symbols) > 0 {
		b.WriteString("## Symbols\n\n" + strings.Join(e.Symbols, ", ") + "\n\n")
	}
	if len(e.Characters) > 0 {
		b.WriteString("## Characters\n\n" + strings.Join(e.Characters, ", ") + "\n\n")
	}
	if len(e.Tags) > 0 {
		b.WriteString("## Tags\n\n" + strings.Join(e.Tags, ", ") + "\n\n")
	}

	fmt.Fprintf(&b, "*Recorded %s*\n", FormatTimeRel(e.ModTime))
	return b.String()
}

func (m Model) renderStatsPanel() string {
	width := m.sidebarWidth()
	label := m.theme.Base.Foreground(m.theme.Subtext).Width(16)
	value := m.theme.Base.Bold(true).Foreground(m.theme.Primary)
	section := m.theme.Header

	var b strings.Builder

	b.WriteString(section.Render("Journal") + "\n")
	b.WriteString(label.Render("Entries") + value.Render(fmt.Sprintf("%d", m.stats.EntryCount)) + "\n")
	if m.stats.SpanDays > 0 {
		b.WriteString(label.Render("Span") + value.Render(fmt.Sprintf("%d days", m.stats.SpanDays)) + "\n")
	}
	b.WriteString(label.Render("Lucid") + value.Render(fmt.Sprintf("%d (%.0f%%)", m.stats.LucidCount, m.stats.LucidRate*100)) + "\n")
	b.WriteString(label.Render("Streak") + value.Render(fmt.Sprintf("%d now, %d best", m.stats.CurrentStreak, m.stats.LongestStreak)) + "\n")
	b.WriteString(label.Render("Pace") + value.Render(fmt.Sprintf("%.1f entries/week", m.stats.EntriesPerWeek)) + "\n")
	if m.stats.EntryCount > 0 {
		bar := m.theme.Base.Foreground(GetHeatmapColor(m.avgRecall, m.theme)).Render(RenderSparkline(m.avgRecall, 10))
		b.WriteString(label.Render("Recall") + value.Render(fmt.Sprintf("%.2f ", m.avgRecall)) + bar + "\n")
	}

	if m.drift.Explanation != "" {
		b.WriteString("\n" + section.Render("Drift") + "\n")
		driftStyle := m.theme.Base.Foreground(m.theme.Positive)
		if m.drift.CompositeDrift > 0.5 {
			driftStyle = m.theme.Base.Foreground(m.theme.Nightmare)
		} else if m.drift.CompositeDrift > 0.25 {
			driftStyle = m.theme.Base.Foreground(m.theme.Warning)
		}
		b.WriteString(driftStyle.Render(fmt.Sprintf("%.2f", m.drift.CompositeDrift)) + " " +
			m.theme.Base.Foreground(m.theme.Subtext).Render(wrapTo(m.drift.Explanation, width-6)) + "\n")
	}

	if rows := m.enabledMetricRows(); len(rows) > 0 {
		b.WriteString("\n" + section.Render("Metrics") + "\n")
		for _, row := range rows {
			b.WriteString(row + "\n")
		}
	}

	if top := m.stats.TopSymbols; len(top) > 0 {
		b.WriteString("\n" + section.Render("Symbols") + "\n")
		var badges []string
		for i, nc := range top {
			if i >= 6 {
				break
			}
			badges = append(badges, RenderSymbolBadge(nc.Name)+m.theme.Base.Foreground(m.theme.Muted).Render(fmt.Sprintf("×%d", nc.Count)))
		}
		b.WriteString(strings.Join(badges, " ") + "\n")
	}

	if len(m.insights) > 0 {
		b.WriteString("\n" + section.Render("Insights") + "\n")
		for i, ins := range m.insights {
			if i >= 3 {
				break
			}
			b.WriteString(m.theme.Base.Foreground(m.theme.Positive).Render("• ") +
				m.theme.Base.Render(ins.Title) + "\n")
		}
	}

	return lipgloss.NewStyle().Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// enabledMetricRows renders one summary row per enabled metric with a
// trend arrow and a sparkline of its recent values.
func (m Model) enabledMetricRows() []string {
	var rows []string
	for _, name := range m.cfg.EnabledMetrics {
		summary, ok := m.stats.Metrics[name]
		if !ok || summary.Samples == 0 {
			continue
		}

		arrow := "→"
		arrowColor := m.theme.Subtext
		if summary.Trend > 0.05 {
			arrow = "↑"
			arrowColor = m.theme.Positive
		} else if summary.Trend < -0.05 {
			arrow = "↓"
			arrowColor = m.theme.Nightmare
		}

		icon, iconColor := m.theme.GetMetricIcon(metricIconID(name))
		row := m.theme.Base.Foreground(iconColor).Render(icon) + " " +
			runewidth.FillRight(runewidth.Truncate(name, 20, "…"), 20) +
			m.theme.Base.Bold(true).Render(fmt.Sprintf("%4.2f ", summary.Mean)) +
			m.theme.Base.Foreground(arrowColor).Render(arrow) + " " +
			m.theme.Base.Foreground(m.theme.Ordinary).Render(RenderSeries(summary.Recent))
		rows = append(rows, row)
	}
	return rows
}

func (m Model) renderStatusBar() string {
	left := m.status
	if left == "" {
		left = fmt.Sprintf("%d of %d entries", len(m.filtered), len(m.entries))
	}
	if m.loading {
		left = "⟳ " + left
	}

	hints := []string{"/ search", "g guide", "M hub", "r reload", "b pin", "q quit"}
	sep := m.theme.Base.Foreground(m.theme.Muted).Render(" │ ")
	right := m.theme.Base.Foreground(m.theme.Subtext).Render(strings.Join(hints, sep))

	line := m.theme.Base.Foreground(m.theme.Secondary).Render(left)
	if m.updateNotice != "" {
		line += "  " + m.theme.Base.Foreground(m.theme.Warning).Render(m.updateNotice)
	}

	gap := m.width - lipgloss.Width(line) - lipgloss.Width(right) - 2
	if gap < 1 {
		return line
	}
	return line + strings.Repeat(" ", gap) + right
}

// FormatTimeRel renders a timestamp relative to now, coarsely.
func FormatTimeRel(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func wrapTo(s string, width int) string {
	if width < 16 {
		width = 16
	}
	words := strings.Fields(s)
	var b strings.Builder
	line := 0
	for i, w := range words {
		if i > 0 {
			if line+1+len(w) > width {
				b.WriteString("\n")
				line = 0
			} else {
				b.WriteString(" ")
				line++
			}
		}
		b.WriteString(w)
		line += len(w)
	}
	return b.String()
}

// formatMetricLine renders one recorded metric with its rubric label
// when the catalog has one for that score.
func formatMetricLine(name string, v float64) string {
	mt, ok := metric.ByName(name)
	if !ok {
		return fmt.Sprintf("%s: %g", name, v)
	}
	if mt.Kind == model.MetricScore {
		idx := int(v) - mt.Min
		if idx >= 0 && idx < len(mt.Rubric) {
			return fmt.Sprintf("%s: %d/%d — %s", name, int(v), mt.Max, mt.Rubric[idx])
		}
		return fmt.Sprintf("%s: %d/%d", name, int(v), mt.Max)
	}
	return fmt.Sprintf("%s: %g", name, v)
}

func metricIconID(name string) string {
	if mt, ok := metric.ByName(name); ok {
		return mt.Icon
	}
	return ""
}
