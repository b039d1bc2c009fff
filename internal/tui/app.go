package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"civic-cli/internal/api"
	"civic-cli/internal/cache"
	"civic-cli/internal/geo"
	"civic-cli/internal/model"
	"civic-cli/internal/reports"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type view int

const (
	viewList view = iota
	viewDetail
)

// Deps is everything the dashboard needs, built once at startup and
// passed in explicitly.
type Deps struct {
	API      *api.Client
	Cache    cache.Cache
	Locator  *geo.Locator
	Profile  *model.UserProfile
	Username string
}

type reportsLoadedMsg struct {
	reports []model.Report
	err     error
	// authExpired marks the failed-refresh path: absent result, session
	// left intact, user told to log in again.
	authExpired bool
}

type cachedReportsMsg struct {
	reports []model.Report
	at      time.Time
	ok      bool
}

type locateDoneMsg struct {
	coords geo.Coords
	err    error
}

type appModel struct {
	deps Deps

	width  int
	height int

	view       view
	collection reports.Collection
	reportList list.Model
	detailID   int

	spin spinner.Model
	// busy is a single boolean, deliberately not a counter: every load
	// completion message clears it, success or failure.
	busy bool
	// netLoaded flips once real data arrived; a cache snapshot may only
	// paint before that.
	netLoaded bool

	notices   []notice
	noticeSeq int

	coords *geo.Coords
}

func newAppModel(deps Deps) appModel {
	applyGlyphPreference()
	applyColorProfilePreference()

	// Init always kicks off a load, and bubbletea renders the model
	// newAppModel returned, not the copy Init's command captured. Start
	// busy so the first frame already shows the indicator.
	m := appModel{deps: deps, view: viewList, busy: true}

	m.reportList = list.New([]list.Item{}, newReportDelegate(), 0, 0)
	m.reportList.Title = "Reports"
	// We render our own chrome; keep the list minimal.
	m.reportList.SetShowTitle(false)
	m.reportList.SetShowHelp(false)
	m.reportList.SetShowStatusBar(false)
	m.reportList.SetShowPagination(false)
	m.reportList.SetFilteringEnabled(false)
	m.reportList.KeyMap.Quit.SetKeys("q")

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return m
}

// Run starts the dashboard.
func Run(deps Deps) error {
	p := tea.NewProgram(newAppModel(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadCachedCmd(), m.loadReportsCmd())
}

// loadReportsCmd fetches the visible report set. Citizens get their own
// reports; admins get everything. Filtering stays client-side.
func (m *appModel) loadReportsCmd() tea.Cmd {
	m.busy = true
	deps := m.deps
	return func() tea.Msg {
		ctx := context.Background()
		var (
			rs  []model.Report
			err error
		)
		if deps.Profile != nil && deps.Profile.IsAdmin() {
			rs, err = deps.API.Reports(ctx, api.ReportQuery{})
		} else {
			rs, err = deps.API.UserReports(ctx)
		}
		if err == api.ErrAuthExpired {
			return reportsLoadedMsg{authExpired: true}
		}
		if err != nil {
			return reportsLoadedMsg{err: err}
		}
		// Refresh the offline snapshot; best-effort.
		_ = deps.Cache.Put(ctx, deps.Username, rs)
		return reportsLoadedMsg{reports: rs}
	}
}

func (m *appModel) loadCachedCmd() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		rs, at, err := deps.Cache.Get(context.Background(), deps.Username)
		if err != nil {
			return cachedReportsMsg{}
		}
		return cachedReportsMsg{reports: rs, at: at, ok: true}
	}
}

func (m *appModel) locateCmd() tea.Cmd {
	loc := m.deps.Locator
	return func() tea.Msg {
		c, err := loc.Locate(context.Background())
		return locateDoneMsg{coords: c, err: err}
	}
}

func (m *appModel) refreshList() {
	curID := 0
	if it, ok := m.reportList.SelectedItem().(reportItem); ok {
		curID = it.report.ID
	}
	visible := m.collection.Apply()
	items := make([]list.Item, 0, len(visible))
	for _, r := range visible {
		items = append(items, reportItem{report: r})
	}
	m.reportList.SetItems(items)
	if curID != 0 {
		for i, it := range items {
			if it.(reportItem).report.ID == curID {
				m.reportList.Select(i)
				break
			}
		}
	}
}

// cycleStatus walks all -> submitted -> in_progress -> resolved ->
// rejected -> all.
func cycleStatus(cur model.Status) model.Status {
	if cur == "" {
		return model.Statuses[0]
	}
	for i, s := range model.Statuses {
		if s == cur {
			if i == len(model.Statuses)-1 {
				return ""
			}
			return model.Statuses[i+1]
		}
	}
	return ""
}

func cycleCategory(cur model.Category) model.Category {
	if cur == "" {
		return model.Categories[0]
	}
	for i, c := range model.Categories {
		if c == cur {
			if i == len(model.Categories)-1 {
				return ""
			}
			return model.Categories[i+1]
		}
	}
	return ""
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case cachedReportsMsg:
		// A snapshot never overwrites live data.
		if !msg.ok || m.netLoaded {
			return m, nil
		}
		m.collection.SetReports(msg.reports)
		m.refreshList()
		age := time.Since(msg.at).Round(time.Minute)
		return m, m.pushNotice(fmt.Sprintf("showing cached reports (%s old)", age), severityInfo)

	case reportsLoadedMsg:
		// Guaranteed cleanup: the indicator never survives a load,
		// whatever the outcome.
		m.busy = false
		switch {
		case msg.authExpired:
			return m, m.pushNotice(api.ErrAuthExpired.Error(), severityError)
		case msg.err != nil:
			return m, m.pushNotice(msg.err.Error(), severityError)
		default:
			m.netLoaded = true
			m.collection.SetReports(msg.reports)
			m.refreshList()
			return m, nil
		}

	case locateDoneMsg:
		if msg.err != nil {
			// One warning, then carry on without a location.
			return m, m.pushNotice("location unavailable; continuing without it", severityWarning)
		}
		c := msg.coords
		m.coords = &c
		where := c.City
		if where == "" {
			where = fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
		}
		return m, m.pushNotice("location: "+where, severitySuccess)

	case noticeExpireMsg:
		m.expireNotice(msg.id)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc", "backspace":
			if m.view == viewDetail {
				m.view = viewList
				return m, nil
			}
		case "enter":
			if m.view == viewList {
				if it, ok := m.reportList.SelectedItem().(reportItem); ok {
					m.detailID = it.report.ID
					m.view = viewDetail
					return m, nil
				}
			}
		case "r":
			return m, tea.Batch(m.loadReportsCmd(), m.spin.Tick)
		case "s":
			m.collection.Filter.Status = cycleStatus(m.collection.Filter.Status)
			m.refreshList()
			return m, nil
		case "c":
			m.collection.Filter.Category = cycleCategory(m.collection.Filter.Category)
			m.refreshList()
			return m, nil
		case "f":
			m.collection.Filter = reports.Filter{}
			m.refreshList()
			return m, nil
		case "g":
			return m, m.locateCmd()
		case "x":
			m.dismissNewestNotice()
			return m, nil
		}
	}

	if m.view == viewList {
		var cmd tea.Cmd
		m.reportList, cmd = m.reportList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) resize() {
	h := m.height - 9 // header, counts, filter bar, notices, footer
	if h < 6 {
		h = 6
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	m.reportList.SetSize(w, h)
}

func (m appModel) headerView() string {
	who := m.deps.Username
	if m.deps.Profile != nil {
		who = m.deps.Profile.DisplayName()
		if m.deps.Profile.IsAdmin() {
			who += " (admin)"
		}
	}
	title := lipgloss.NewStyle().Bold(true).Render("Civic Reports")
	busy := ""
	if m.busy {
		busy = "  " + m.spin.View() + "loading"
	}
	return title + styleMuted().Render("  "+who) + busy
}

func (m appModel) countsView() string {
	counts := m.collection.Counts()
	parts := []string{fmt.Sprintf("Total %d", counts.Total)}
	for _, s := range model.Statuses {
		parts = append(parts, fmt.Sprintf("%s %d", s.Label(), counts.ByStatus[s]))
	}
	return styleMuted().Render(strings.Join(parts, "  "+glyphBullet()+"  "))
}

func (m appModel) filterView() string {
	status := "all"
	if m.collection.Filter.Status != "" {
		status = m.collection.Filter.Status.Label()
	}
	category := "all"
	if m.collection.Filter.Category != "" {
		category = m.collection.Filter.Category.Label()
	}
	return styleMuted().Render(fmt.Sprintf("status: %s  %s  category: %s", status, glyphBullet(), category))
}

func (m appModel) emptyStateView() string {
	if len(m.collection.All()) == 0 {
		return styleMuted().Render("No reports yet. Submit one with `civic reports submit`.")
	}
	return styleMuted().Render("No reports match the current filters. Press f to clear them.")
}

func (m appModel) View() string {
	var body string
	switch m.view {
	case viewDetail:
		body = m.detailView()
	default:
		if len(m.collection.Apply()) == 0 {
			body = m.emptyStateView()
		} else {
			body = m.reportList.View()
		}
	}

	sections := []string{
		m.headerView(),
		m.countsView(),
		m.filterView(),
		body,
	}
	if n := m.renderNotices(m.width); n != "" {
		sections = append(sections, n)
	}
	footer := styleMuted().Render("enter: details  s/c: filter  f: clear  r: reload  g: locate  x: dismiss  q: quit")
	sections = append(sections, footer)
	return strings.Join(sections, "\n\n")
}

func (m appModel) detailView() string {
	for _, r := range m.collection.All() {
		if r.ID == m.detailID {
			h := m.height - 8
			if h < 8 {
				h = 8
			}
			return renderDetail(r, m.width, h)
		}
	}
	return styleMuted().Render("Report no longer available.")
}
