package format

import (
	"strings"
	"testing"

	"github.com/villeh/early-mcp/internal/core/config"
	"github.com/villeh/early-mcp/internal/core/models"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{90, "1h 30m"},
		{150, "2h 30m"},
		{-5, "0m"},
	}
	for _, tt := range tests {
		if got := Duration(tt.minutes); got != tt.want {
			t.Errorf("Duration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestEntryMinutes(t *testing.T) {
	got := EntryMinutes("2025-10-14T06:00:00.000", "2025-10-14T07:30:00.000")
	if got != 90 {
		t.Errorf("minutes = %d, want 90", got)
	}
	if got := EntryMinutes("2025-10-14T06:00:00.000", ""); got != 0 {
		t.Errorf("open entry minutes = %d, want 0", got)
	}
	if got := EntryMinutes("garbage", "2025-10-14T07:00:00.000"); got != 0 {
		t.Errorf("unparseable minutes = %d, want 0", got)
	}
}

func TestActivityDefaults(t *testing.T) {
	if got := ActivityName(nil); got != "Unknown" {
		t.Errorf("nil activity name = %q", got)
	}
	if got := ActivityName(&models.Activity{}); got != "Unknown" {
		t.Errorf("empty activity name = %q", got)
	}
	if got := ActivityDescription(nil); got != "No description" {
		t.Errorf("nil description = %q", got)
	}
	if got := ActivityName(&models.Activity{Name: "Writing"}); got != "Writing" {
		t.Errorf("name = %q", got)
	}
}

func TestTimerStartedDefaultTemplate(t *testing.T) {
	session := &models.TrackingSession{
		ID:       "tr-1",
		Activity: &models.Activity{Name: "Writing"},
		Duration: models.Duration{StartedAt: "2025-10-14T06:00:00.000"},
		Note:     &models.Note{Text: "drafting"},
	}
	out := TimerStarted(config.DefaultTimerStartedTemplate, session)
	if !strings.Contains(out, "Writing") {
		t.Errorf("output missing activity name: %q", out)
	}
	if !strings.Contains(out, "drafting") {
		t.Errorf("output missing note: %q", out)
	}
}

func TestTimerStartedOmitsEmptyNoteSection(t *testing.T) {
	session := &models.TrackingSession{
		Activity: &models.Activity{Name: "Writing"},
		Duration: models.Duration{StartedAt: "2025-10-14T06:00:00.000"},
	}
	out := TimerStarted(config.DefaultTimerStartedTemplate, session)
	if strings.Contains(out, "()") {
		t.Errorf("empty note section leaked into output: %q", out)
	}
}

func TestTimerStartedBadTemplateFallsBack(t *testing.T) {
	session := &models.TrackingSession{
		Activity: &models.Activity{Name: "Writing"},
		Duration: models.Duration{StartedAt: "2025-10-14T06:00:00.000"},
	}
	out := TimerStarted("{{#unclosed", session)
	if !strings.Contains(out, "Writing") {
		t.Errorf("fallback missing activity name: %q", out)
	}
}

func TestTimerStoppedDefaultTemplate(t *testing.T) {
	entry := &models.TimeEntry{
		Activity: &models.Activity{Name: "Writing"},
		Duration: models.Duration{StartedAt: "2025-10-14T06:00:00.000", StoppedAt: "2025-10-14T07:30:00.000"},
	}
	out := TimerStopped(config.DefaultTimerStoppedTemplate, entry)
	if !strings.Contains(out, "1h 30m") {
		t.Errorf("output missing duration: %q", out)
	}
}

func TestEntryLine(t *testing.T) {
	entry := &models.TimeEntry{
		ID:       "ent-1",
		Activity: &models.Activity{Name: "Writing"},
		Duration: models.Duration{StartedAt: "2025-10-14T06:00:00.000", StoppedAt: "2025-10-14T07:30:00.000"},
		Note:     &models.Note{Text: "drafting"},
	}
	line := EntryLine(entry)
	for _, want := range []string{"Writing", "1h 30m", "drafting", "ent-1"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestEntryLineRunning(t *testing.T) {
	entry := &models.TimeEntry{
		Activity: &models.Activity{Name: "Writing"},
		Duration: models.Duration{StartedAt: "2025-10-14T06:00:00.000"},
	}
	line := EntryLine(entry)
	if !strings.Contains(line, "now") {
		t.Errorf("running entry should show open end: %q", line)
	}
}

func TestActivityLine(t *testing.T) {
	line := ActivityLine(&models.Activity{ID: "act-1", Name: "Writing", Color: "#3d85c6", Status: "archived"})
	for _, want := range []string{"Writing", "archived", "#3d85c6", "act-1"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
	if line := ActivityLine(&models.Activity{ID: "a", Name: "X", Status: "active"}); strings.Contains(line, "active") {
		t.Errorf("active status should be implicit: %q", line)
	}
}

func TestRelativeTimeFallsBackOnGarbage(t *testing.T) {
	if got := RelativeTime("garbage"); got != "garbage" {
		t.Errorf("fallback = %q", got)
	}
	if got := RelativeTime("2025-10-14T06:00:00.000"); got == "" {
		t.Error("expected non-empty relative time")
	}
}
