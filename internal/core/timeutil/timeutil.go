// Package timeutil owns the Early API timestamp convention: ISO-8601 with
// millisecond precision and no trailing Z, always interpreted as UTC
// (e.g. "2025-10-14T06:00:19.657"). Everything that crosses the wire goes
// through Format/Parse here so the quirk lives in one place.
package timeutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

const (
	// wireLayout is what Early sends and expects: no zone designator.
	wireLayout = "2006-01-02T15:04:05.000"
	// DateLayout is the YYYY-MM-DD form used by range endpoints.
	DateLayout = "2006-01-02"
)

// Format renders t in Early wire format (UTC, milliseconds, no Z).
func Format(t time.Time) string {
	return t.UTC().Format(wireLayout)
}

// Now returns the current instant in wire format.
func Now() string {
	return Format(time.Now())
}

// Parse reads an Early wire timestamp as UTC. A trailing Z or explicit
// offset, if present, is honored.
func Parse(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if strings.HasSuffix(s, "Z") || (len(s) > 10 && strings.Contains(s[10:], "+")) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range []string{wireLayout, "2006-01-02T15:04:05", DateLayout} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// LocalClock renders a wire timestamp as a local wall-clock time (HH:MM:SS).
// Returns the input unchanged when it cannot be parsed, so display code never
// has to branch on bad upstream data.
func LocalClock(s string) string {
	t, err := Parse(s)
	if err != nil {
		return s
	}
	return t.Local().Format("15:04:05")
}

// LocalDateTime renders a wire timestamp as a local date and time.
func LocalDateTime(s string) string {
	t, err := Parse(s)
	if err != nil {
		return s
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// CurrentDateLocal returns today's date in the local timezone as YYYY-MM-DD.
func CurrentDateLocal() string {
	return time.Now().Format(DateLayout)
}

// DayRange expands a YYYY-MM-DD date into the start/end wire timestamps the
// range endpoint expects.
func DayRange(date string) (start, end string) {
	return date + "T00:00:00.000", date + "T23:59:59.999"
}

// WeekRange returns the wire timestamps covering the week containing now,
// Sunday through Saturday, matching the upstream's week convention.
func WeekRange(now time.Time) (start, end string) {
	startOfWeek := now.AddDate(0, 0, -int(now.Weekday()))
	endOfWeek := startOfWeek.AddDate(0, 0, 6)
	return startOfWeek.Format(DateLayout) + "T00:00:00.000",
		endOfWeek.Format(DateLayout) + "T23:59:59.999"
}

// parser is the shared natural-language rule set. when parsers are stateless
// after construction, so one instance serves all calls.
var parser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ParseUserTime accepts either a literal timestamp (wire format, RFC3339, or
// a bare date) or a natural-language phrase like "2 hours ago" or
// "yesterday at 9am", resolved against base.
func ParseUserTime(s string, base time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := Parse(s); err == nil {
		return t, nil
	}
	r, err := parser.Parse(s, base)
	if err != nil || r == nil {
		return time.Time{}, fmt.Errorf("could not interpret time %q", s)
	}
	return r.Time, nil
}

// ParseUserDate resolves a date argument ("2025-01-10", "yesterday",
// "last monday") to YYYY-MM-DD.
func ParseUserDate(s string, base time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	r, err := parser.Parse(s, base)
	if err != nil || r == nil {
		return "", fmt.Errorf("could not interpret date %q", s)
	}
	return r.Time.Format(DateLayout), nil
}
