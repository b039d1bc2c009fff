package format

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]int{"total": 2}, "json", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"total":2}` {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestWritePretty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]int{"total": 2}, "", true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"total\": 2\n") {
		t.Fatalf("expected indented output, got %q", buf.String())
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, 1, "yaml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
