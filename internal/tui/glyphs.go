package tui

import (
	"os"
	"strings"
	"sync"

	"civic-cli/internal/model"
)

// Terminal apps can't change the user's font. Instead we choose between
// Unicode and ASCII glyph sets for badges and separators, which helps on
// terminals/fonts that don't render some glyphs cleanly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("CIVIC_TUI_GLYPHS")))
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

type glyphPair struct {
	unicode string
	ascii   string
}

func (g glyphPair) String() string {
	if glyphs() == glyphSetASCII {
		return g.ascii
	}
	return g.unicode
}

// Fixed status -> glyph table with a defined default. Unknown codes get
// the fallback glyph and render with their raw label; they never fail.
var statusGlyphs = map[model.Status]glyphPair{
	model.StatusSubmitted:  {"◷", "o"},
	model.StatusInProgress: {"◐", "~"},
	model.StatusResolved:   {"✔", "+"},
	model.StatusRejected:   {"✘", "x"},
}

var fallbackGlyph = glyphPair{"◌", "?"}

func statusGlyph(s model.Status) string {
	if g, ok := statusGlyphs[s]; ok {
		return g.String()
	}
	return fallbackGlyph.String()
}

var priorityGlyphs = map[model.Priority]glyphPair{
	model.PriorityLow:    {"▁", "."},
	model.PriorityMedium: {"▄", "-"},
	model.PriorityHigh:   {"▆", "^"},
	model.PriorityUrgent: {"█", "!"},
}

func priorityGlyph(p model.Priority) string {
	if g, ok := priorityGlyphs[p]; ok {
		return g.String()
	}
	return fallbackGlyph.String()
}

func glyphBullet() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}

func glyphImage() string {
	if glyphs() == glyphSetASCII {
		return "[img]"
	}
	return "🖼"
}
