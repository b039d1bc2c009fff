package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type severity string

const (
	severitySuccess severity = "success"
	severityError   severity = "error"
	severityWarning severity = "warning"
	severityInfo    severity = "info"
)

const noticeDuration = 5 * time.Second

// notice is one transient message. Notices stack (no dedup) and each
// auto-dismisses independently.
type notice struct {
	id   int
	text string
	sev  severity
}

type noticeExpireMsg struct{ id int }

// pushNotice appends a notice and returns the tick that will expire it.
func (m *appModel) pushNotice(text string, sev severity) tea.Cmd {
	return m.pushNoticeFor(text, sev, noticeDuration)
}

func (m *appModel) pushNoticeFor(text string, sev severity, d time.Duration) tea.Cmd {
	m.noticeSeq++
	n := notice{id: m.noticeSeq, text: text, sev: sev}
	m.notices = append(m.notices, n)
	id := n.id
	return tea.Tick(d, func(time.Time) tea.Msg { return noticeExpireMsg{id: id} })
}

func (m *appModel) expireNotice(id int) {
	out := m.notices[:0]
	for _, n := range m.notices {
		if n.id != id {
			out = append(out, n)
		}
	}
	m.notices = out
}

// dismissNewestNotice is the user's early-dismiss: newest first.
func (m *appModel) dismissNewestNotice() {
	if len(m.notices) == 0 {
		return
	}
	m.notices = m.notices[:len(m.notices)-1]
}

func severityColor(sev severity) lipgloss.TerminalColor {
	switch sev {
	case severitySuccess:
		return colorSuccess
	case severityError:
		return colorError
	case severityWarning:
		return colorWarning
	default:
		return colorInfo
	}
}

func severityTag(sev severity) string {
	switch sev {
	case severitySuccess:
		return "ok"
	case severityError:
		return "error"
	case severityWarning:
		return "warn"
	default:
		return "info"
	}
}

func (m appModel) renderNotices(width int) string {
	if len(m.notices) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.notices))
	for _, n := range m.notices {
		tag := lipgloss.NewStyle().
			Bold(true).
			Foreground(severityColor(n.sev)).
			Render("[" + severityTag(n.sev) + "]")
		line := tag + " " + n.text
		if width > 8 && lipgloss.Width(line) > width {
			line = xansi.Truncate(line, width, "…")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
