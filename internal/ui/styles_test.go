package ui

import (
	"strings"
	"testing"
)

func TestSetColorEnabled(t *testing.T) {
	defer SetColorEnabled(true)

	SetColorEnabled(false)
	if got := Success("*"); got != "*" {
		t.Errorf("Success with color off = %q, want plain %q", got, "*")
	}
	if got := Muted("5m ago"); got != "5m ago" {
		t.Errorf("Muted with color off = %q, want plain input", got)
	}
	if out := RenderTable([]string{"KEY"}, [][]string{{"ENG"}}); strings.Contains(out, "\x1b[") {
		t.Errorf("table with color off contains escape codes:\n%q", out)
	}

	SetColorEnabled(true)
	if got := Error("failed"); !strings.Contains(got, "failed") {
		t.Errorf("Error = %q, want the input text preserved", got)
	}
}
