// Package format turns API models into the human-readable lines the tools
// return. Display defaults ("Unknown", "No description") live here so the
// models stay faithful to the wire.
package format

import (
	"fmt"
	"strings"

	"github.com/cbroglie/mustache"
	"github.com/dustin/go-humanize"
	"github.com/villeh/early-mcp/internal/core/models"
	"github.com/villeh/early-mcp/internal/core/timeutil"
)

// ActivityName returns a displayable name for an activity that may be nil.
func ActivityName(a *models.Activity) string {
	if a == nil || a.Name == "" {
		return "Unknown"
	}
	return a.Name
}

// ActivityDescription returns a displayable description.
func ActivityDescription(a *models.Activity) string {
	if a == nil || a.Description == "" {
		return "No description"
	}
	return a.Description
}

// Duration renders a minute count as "45m" or "1h 30m".
func Duration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// EntryMinutes computes the whole minutes between two wire timestamps.
// Unparseable or open-ended input yields zero.
func EntryMinutes(startedAt, stoppedAt string) int {
	if startedAt == "" || stoppedAt == "" {
		return 0
	}
	started, err := timeutil.Parse(startedAt)
	if err != nil {
		return 0
	}
	stopped, err := timeutil.Parse(stoppedAt)
	if err != nil {
		return 0
	}
	minutes := int(stopped.Sub(started).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}

// RelativeTime renders a wire timestamp as "22 minutes ago". Falls back to
// the raw value when it cannot be parsed.
func RelativeTime(wire string) string {
	t, err := timeutil.Parse(wire)
	if err != nil {
		return wire
	}
	return humanize.Time(t)
}

// TimerStarted renders the started-timer summary through the given mustache
// template, falling back to a plain line if the template fails.
func TimerStarted(template string, session *models.TrackingSession) string {
	name := "Unknown"
	if session.Activity != nil && session.Activity.Name != "" {
		name = session.Activity.Name
	}
	data := map[string]interface{}{
		"activity_name": name,
		"started_at":    timeutil.LocalClock(session.Duration.StartedAt),
		"note":          session.NoteText(),
	}
	out, err := mustache.Render(template, data)
	if err != nil {
		return fmt.Sprintf("⏱️ Started tracking %q at %s.", name, timeutil.LocalClock(session.Duration.StartedAt))
	}
	return out
}

// TimerStopped renders the stopped-timer summary for the completed entry.
func TimerStopped(template string, entry *models.TimeEntry) string {
	name := ActivityName(entry.Activity)
	minutes := EntryMinutes(entry.Duration.StartedAt, entry.Duration.StoppedAt)
	data := map[string]interface{}{
		"activity_name": name,
		"duration":      Duration(minutes),
		"stopped_at":    timeutil.LocalClock(entry.Duration.StoppedAt),
		"note":          entry.NoteText(),
	}
	out, err := mustache.Render(template, data)
	if err != nil {
		return fmt.Sprintf("⏹️ Stopped %q after %s.", name, Duration(minutes))
	}
	return out
}

// EntryLine renders a single time entry for list output.
func EntryLine(entry *models.TimeEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s – ", timeutil.LocalDateTime(entry.Duration.StartedAt))
	if entry.IsRunning() {
		b.WriteString("now")
	} else {
		b.WriteString(timeutil.LocalClock(entry.Duration.StoppedAt))
	}
	fmt.Fprintf(&b, "  %s", ActivityName(entry.Activity))
	if !entry.IsRunning() {
		fmt.Fprintf(&b, " (%s)", Duration(EntryMinutes(entry.Duration.StartedAt, entry.Duration.StoppedAt)))
	}
	if note := entry.NoteText(); note != "" {
		fmt.Fprintf(&b, " - %s", note)
	}
	if entry.ID != "" {
		fmt.Fprintf(&b, " [id: %s]", entry.ID)
	}
	return b.String()
}

// ActivityLine renders a single activity for list output.
func ActivityLine(a *models.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", ActivityName(a))
	if a != nil && a.Status != "" && a.Status != "active" {
		fmt.Fprintf(&b, " (%s)", a.Status)
	}
	if a != nil && a.Color != "" {
		fmt.Fprintf(&b, " %s", a.Color)
	}
	if a != nil && a.ID != "" {
		fmt.Fprintf(&b, " [id: %s]", a.ID)
	}
	return b.String()
}
