package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"civic-cli/internal/model"
	"civic-cli/internal/reports"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func testModel() appModel {
	m := newAppModel(Deps{Username: "kari", Profile: &model.UserProfile{Username: "kari", Role: model.RoleCitizen}})
	m.width = 100
	m.height = 40
	m.resize()
	return m
}

func updated(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()
	next, _ := m.Update(msg)
	am, ok := next.(appModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am
}

func TestBusyShownFromFirstFrame(t *testing.T) {
	// The initial load starts in Init, but the program renders the
	// constructed model; the indicator must already be on.
	m := testModel()
	if !m.busy {
		t.Fatalf("model must start busy, the initial load begins immediately")
	}

	_, cmd := m.Update(spinner.TickMsg{Time: time.Now()})
	if cmd == nil {
		t.Fatalf("spinner must keep ticking while the initial load runs")
	}

	m = updated(t, m, reportsLoadedMsg{reports: []model.Report{{ID: 1}}})
	if m.busy {
		t.Fatalf("busy must clear once the initial load lands")
	}
	if _, cmd := m.Update(spinner.TickMsg{Time: time.Now()}); cmd != nil {
		t.Fatalf("spinner must stop once idle")
	}
}

func TestBusyClearedOnSuccessAndFailure(t *testing.T) {
	m := testModel()
	m.busy = true
	m = updated(t, m, reportsLoadedMsg{reports: []model.Report{{ID: 1, Status: model.StatusSubmitted}}})
	if m.busy {
		t.Fatalf("busy must clear after a successful load")
	}

	m.busy = true
	m = updated(t, m, reportsLoadedMsg{err: errors.New("boom")})
	if m.busy {
		t.Fatalf("busy must clear after a failed load")
	}

	m.busy = true
	m = updated(t, m, reportsLoadedMsg{authExpired: true})
	if m.busy {
		t.Fatalf("busy must clear after an auth-expired load")
	}
}

func TestLoadFailurePushesErrorNotice(t *testing.T) {
	m := testModel()
	m = updated(t, m, reportsLoadedMsg{err: errors.New("connection refused")})
	if len(m.notices) != 1 {
		t.Fatalf("expected one notice, got %d", len(m.notices))
	}
	if m.notices[0].sev != severityError {
		t.Fatalf("expected error severity, got %q", m.notices[0].sev)
	}
}

func TestCachedSnapshotNeverOverwritesLiveData(t *testing.T) {
	m := testModel()
	m = updated(t, m, reportsLoadedMsg{reports: []model.Report{{ID: 1}}})
	m = updated(t, m, cachedReportsMsg{reports: []model.Report{{ID: 99}}, at: time.Now(), ok: true})
	all := m.collection.All()
	if len(all) != 1 || all[0].ID != 1 {
		t.Fatalf("cache overwrote live data: %+v", all)
	}
}

func TestCachedSnapshotPaintsBeforeNetwork(t *testing.T) {
	m := testModel()
	m = updated(t, m, cachedReportsMsg{reports: []model.Report{{ID: 99}}, at: time.Now(), ok: true})
	all := m.collection.All()
	if len(all) != 1 || all[0].ID != 99 {
		t.Fatalf("expected cached data to paint: %+v", all)
	}
}

func TestFilterKeysCycleSelectors(t *testing.T) {
	m := testModel()
	m = updated(t, m, reportsLoadedMsg{reports: []model.Report{
		{ID: 1, Status: model.StatusSubmitted, Category: model.CategoryPothole},
		{ID: 2, Status: model.StatusResolved, Category: model.CategoryTrash},
	}})

	m = updated(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if m.collection.Filter.Status != model.StatusSubmitted {
		t.Fatalf("expected first status selector, got %q", m.collection.Filter.Status)
	}
	if got := len(m.reportList.Items()); got != 1 {
		t.Fatalf("expected 1 visible item, got %d", got)
	}

	// Counts never move with the selectors.
	counts := m.collection.Counts()
	if counts.Total != 2 || counts.ByStatus[model.StatusResolved] != 1 {
		t.Fatalf("counts moved with filter: %+v", counts)
	}

	m = updated(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if m.collection.Filter != (reports.Filter{}) {
		t.Fatalf("expected cleared filter")
	}
	if got := len(m.reportList.Items()); got != 2 {
		t.Fatalf("expected all items back, got %d", got)
	}
}

func TestCycleStatusWrapsToAll(t *testing.T) {
	cur := model.Status("")
	seen := map[model.Status]bool{}
	for i := 0; i < len(model.Statuses); i++ {
		cur = cycleStatus(cur)
		seen[cur] = true
	}
	if len(seen) != len(model.Statuses) {
		t.Fatalf("cycle missed statuses: %v", seen)
	}
	if got := cycleStatus(cur); got != "" {
		t.Fatalf("expected wrap to no-constraint, got %q", got)
	}
	// Unknown selector resets to no-constraint.
	if got := cycleStatus("archived"); got != "" {
		t.Fatalf("unknown selector should reset, got %q", got)
	}
}

func TestNoticeStackAndDismiss(t *testing.T) {
	m := testModel()
	_ = m.pushNotice("one", severityInfo)
	_ = m.pushNotice("one", severityInfo) // no dedup
	_ = m.pushNotice("two", severityWarning)
	if len(m.notices) != 3 {
		t.Fatalf("expected 3 stacked notices, got %d", len(m.notices))
	}

	m.dismissNewestNotice()
	if len(m.notices) != 2 || m.notices[1].text != "one" {
		t.Fatalf("expected newest dismissed, got %+v", m.notices)
	}

	id := m.notices[0].id
	m.expireNotice(id)
	if len(m.notices) != 1 {
		t.Fatalf("expected expiry to remove one notice, got %d", len(m.notices))
	}
	// Expiring an already-gone id is a no-op.
	m.expireNotice(id)
	if len(m.notices) != 1 {
		t.Fatalf("expected no-op expiry, got %d", len(m.notices))
	}
}

func TestLocateFailureDegrades(t *testing.T) {
	m := testModel()
	m = updated(t, m, locateDoneMsg{err: errors.New("denied")})
	if m.coords != nil {
		t.Fatalf("expected no coordinates on failure")
	}
	if len(m.notices) != 1 || m.notices[0].sev != severityWarning {
		t.Fatalf("expected one warning notice, got %+v", m.notices)
	}
}

func TestEmptyStateInsteadOfZeroFragments(t *testing.T) {
	m := testModel()
	m = updated(t, m, reportsLoadedMsg{reports: nil})
	if v := m.View(); !strings.Contains(v, "No reports yet") {
		t.Fatalf("expected empty-state for an empty load")
	}

	m = updated(t, m, reportsLoadedMsg{reports: []model.Report{
		{ID: 1, Status: model.StatusSubmitted, Category: model.CategoryPothole},
	}})
	m.collection.Filter.Status = model.StatusResolved
	m.refreshList()
	if v := m.View(); !strings.Contains(v, "No reports match") {
		t.Fatalf("expected filtered empty-state")
	}
}

func TestDetailViewRoundTrip(t *testing.T) {
	m := testModel()
	m = updated(t, m, reportsLoadedMsg{reports: []model.Report{
		{ID: 7, Title: "Pothole on Elm", Status: model.StatusSubmitted, Category: model.CategoryPothole},
	}})
	m = updated(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != viewDetail || m.detailID != 7 {
		t.Fatalf("expected detail view for report 7, got view=%d id=%d", m.view, m.detailID)
	}
	if v := m.View(); !strings.Contains(v, "Pothole on Elm") {
		t.Fatalf("detail view missing title")
	}
	m = updated(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != viewList {
		t.Fatalf("expected esc back to list")
	}
}
