package tui

import (
	"fmt"
	"io"
	"strings"

	"civic-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type reportItem struct {
	report model.Report
}

func (i reportItem) FilterValue() string {
	return strings.TrimSpace(i.report.Title)
}

// badge renders "<glyph> <label>" in the given color.
func badge(glyph, label string, color lipgloss.TerminalColor) string {
	return lipgloss.NewStyle().Foreground(color).Render(glyph + " " + label)
}

func statusBadge(r model.Report) string {
	color := colorMetaFg
	switch r.Status {
	case model.StatusResolved:
		color = colorSuccess
	case model.StatusRejected:
		color = colorError
	case model.StatusInProgress:
		color = colorInfo
	}
	return badge(statusGlyph(r.Status), r.StatusLabel(), color)
}

func priorityBadge(r model.Report) string {
	color := colorMetaFg
	switch r.Priority {
	case model.PriorityHigh:
		color = colorWarning
	case model.PriorityUrgent:
		color = colorUrgent
	}
	return badge(priorityGlyph(r.Priority), r.PriorityLabel(), color)
}

// addressLine is the address or the location-provided fallback; reports
// always carry coordinates even when geocoding produced no street text.
func addressLine(r model.Report) string {
	if a := strings.TrimSpace(r.Address); a != "" {
		return a
	}
	return "Location provided"
}

func fmtCreated(r model.Report) string {
	if r.CreatedAt.IsZero() {
		return "-"
	}
	return r.CreatedAt.Local().Format("2006-01-02 15:04")
}

// reportDelegate renders one two-line fragment per report: a title line
// and a meta line with badges.
type reportDelegate struct {
	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	metaStyle     lipgloss.Style
	cursorStyle   lipgloss.Style
}

func newReportDelegate() reportDelegate {
	return reportDelegate{
		titleStyle:    lipgloss.NewStyle().Bold(true).Foreground(colorTitleFg),
		selectedStyle: lipgloss.NewStyle().Bold(true).Foreground(colorSelected).Underline(true),
		metaStyle:     lipgloss.NewStyle().Foreground(colorMetaFg),
		cursorStyle:   lipgloss.NewStyle().Foreground(colorAccent),
	}
}

func (d reportDelegate) Height() int  { return 2 }
func (d reportDelegate) Spacing() int { return 1 }
func (d reportDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d reportDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(reportItem)
	if !ok {
		return
	}
	width := m.Width() - 4
	if width < 20 {
		width = 20
	}

	cursor := "  "
	titleSt := d.titleStyle
	if index == m.Index() {
		cursor = d.cursorStyle.Render(glyphBullet() + " ")
		titleSt = d.selectedStyle
	}

	title := strings.TrimSpace(it.report.Title)
	if title == "" {
		title = "(untitled report)"
	}
	titleLine := cursor + titleSt.Render(title)
	if it.report.Image != "" {
		titleLine += " " + d.metaStyle.Render(glyphImage())
	}

	sep := " " + glyphBullet() + " "
	meta := strings.Join([]string{
		statusBadge(it.report),
		priorityBadge(it.report),
		d.metaStyle.Render(it.report.CategoryLabel()),
		d.metaStyle.Render(fmtCreated(it.report)),
	}, sep)
	metaLine := "  " + meta

	fmt.Fprint(w, xansi.Truncate(titleLine, width, "…")+"\n"+xansi.Truncate(metaLine, width, "…"))
}
