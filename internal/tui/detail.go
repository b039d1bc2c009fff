package tui

import (
	"fmt"
	"strings"

	"civic-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Contextual actions: "view details" is always offered; "edit" only
// while the report is still untriaged.
func reportActions(r model.Report) []string {
	actions := []string{"View Details"}
	if r.Editable() {
		actions = append(actions, "Edit")
	}
	return actions
}

// renderDetail paints the full fragment for one report: badges, meta,
// description, optional image reference, and the action set.
func renderDetail(r model.Report, width, height int) string {
	if width < 24 {
		width = 24
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(colorTitleFg).Render(strings.TrimSpace(r.Title))
	meta := styleMuted()

	lines := []string{
		title,
		statusBadge(r) + "  " + priorityBadge(r),
		meta.Render(r.CategoryLabel()),
		meta.Render("Reported " + fmtCreated(r) + daysSuffix(r)),
		meta.Render(addressLine(r)),
	}
	if r.ReportedBy != "" {
		lines = append(lines, meta.Render("By "+r.ReportedBy))
	}
	if r.AssignedDepartment != "" {
		lines = append(lines, meta.Render("Assigned to "+r.AssignedDepartment))
	}

	if desc := renderMarkdown(r.Description, width-2); desc != "" {
		lines = append(lines, "", desc)
	}
	if r.Image != "" {
		lines = append(lines, "", meta.Render(glyphImage()+" "+r.Image))
	}

	actions := lipgloss.NewStyle().Foreground(colorAccent).
		Render("[" + strings.Join(reportActions(r), "]  [") + "]")
	lines = append(lines, "", actions)

	st := lipgloss.NewStyle().Width(width)
	if height > 0 {
		st = st.MaxHeight(height)
	}
	return st.Render(strings.Join(lines, "\n"))
}

func daysSuffix(r model.Report) string {
	if r.DaysSinceSubmitted <= 0 {
		return ""
	}
	if r.DaysSinceSubmitted == 1 {
		return " (1 day ago)"
	}
	return fmt.Sprintf(" (%d days ago)", r.DaysSinceSubmitted)
}
