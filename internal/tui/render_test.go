package tui

import (
	"strings"
	"testing"
	"time"

	"civic-cli/internal/model"
)

func TestStatusGlyphFallback(t *testing.T) {
	setGlyphs(glyphSetUnicode)
	if got := statusGlyph(model.StatusResolved); got != "✔" {
		t.Fatalf("resolved glyph = %q", got)
	}
	if got := statusGlyph(model.Status("archived")); got != "◌" {
		t.Fatalf("unknown status should get the fallback glyph, got %q", got)
	}
	if got := priorityGlyph(model.Priority("blocker")); got != "◌" {
		t.Fatalf("unknown priority should get the fallback glyph, got %q", got)
	}

	setGlyphs(glyphSetASCII)
	defer setGlyphs(glyphSetUnicode)
	if got := statusGlyph(model.Status("archived")); got != "?" {
		t.Fatalf("ascii fallback glyph = %q", got)
	}
	if got := glyphBullet(); got != "*" {
		t.Fatalf("ascii bullet = %q", got)
	}
}

func TestApplyGlyphPreference(t *testing.T) {
	defer setGlyphs(glyphSetUnicode)

	t.Setenv("CIVIC_TUI_GLYPHS", "ascii")
	applyGlyphPreference()
	if glyphs() != glyphSetASCII {
		t.Fatalf("expected ascii glyph set")
	}

	// Unknown values leave the current choice alone.
	t.Setenv("CIVIC_TUI_GLYPHS", "emoji")
	applyGlyphPreference()
	if glyphs() != glyphSetASCII {
		t.Fatalf("unknown preference should be ignored")
	}

	t.Setenv("CIVIC_TUI_GLYPHS", "")
	applyGlyphPreference()
	if glyphs() != glyphSetUnicode {
		t.Fatalf("empty preference should mean unicode")
	}
}

func TestReportActionsFollowStatus(t *testing.T) {
	r := model.Report{ID: 3, Status: model.StatusSubmitted}
	if got := reportActions(r); len(got) != 2 || got[1] != "Edit" {
		t.Fatalf("untriaged report should offer Edit, got %v", got)
	}

	r.Status = model.StatusInProgress
	if got := reportActions(r); len(got) != 1 || got[0] != "View Details" {
		t.Fatalf("triaged report should only offer View Details, got %v", got)
	}
}

func TestAddressLineFallback(t *testing.T) {
	r := model.Report{Address: "12 Elm St"}
	if got := addressLine(r); got != "12 Elm St" {
		t.Fatalf("addressLine = %q", got)
	}
	r.Address = "   "
	if got := addressLine(r); got != "Location provided" {
		t.Fatalf("blank address fallback = %q", got)
	}
}

func TestRenderDetailUnknownStatus(t *testing.T) {
	r := model.Report{
		ID:            4,
		Title:         "Flooded underpass",
		Status:        model.Status("archived"),
		StatusDisplay: "Archived",
		Priority:      model.PriorityHigh,
		Category:      model.CategoryDrainage,
		CreatedAt:     time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC),
	}
	out := renderDetail(r, 80, 30)
	if !strings.Contains(out, "Archived") {
		t.Fatalf("unknown status should render its raw display label:\n%s", out)
	}
	if !strings.Contains(out, "Flooded underpass") {
		t.Fatalf("detail missing title:\n%s", out)
	}
	if strings.Contains(out, "Edit") {
		t.Fatalf("non-submitted report must not offer Edit:\n%s", out)
	}
}

func TestDaysSuffix(t *testing.T) {
	cases := []struct {
		days int
		want string
	}{
		{0, ""},
		{1, " (1 day ago)"},
		{12, " (12 days ago)"},
	}
	for _, c := range cases {
		if got := daysSuffix(model.Report{DaysSinceSubmitted: c.days}); got != c.want {
			t.Fatalf("daysSuffix(%d) = %q, want %q", c.days, got, c.want)
		}
	}
}
