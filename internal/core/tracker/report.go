package tracker

import (
	"sort"

	"github.com/villeh/early-mcp/internal/core/models"
	"github.com/villeh/early-mcp/internal/core/timeutil"
)

// ReportLine is one activity's share of a report period.
type ReportLine struct {
	ActivityName string
	Minutes      int
	Percent      float64
	EntryCount   int
}

// Report aggregates a set of time entries by activity.
type Report struct {
	TotalMinutes int
	Lines        []ReportLine
}

// BuildReport groups completed entries by activity name and totals their
// durations. Entries without a stop time are skipped; still-running time
// is not part of a report. Lines are ordered by minutes, largest first,
// with name as the tiebreak so output is stable.
func BuildReport(entries []models.TimeEntry) Report {
	type bucket struct {
		minutes int
		count   int
	}
	buckets := map[string]*bucket{}

	var total int
	for _, entry := range entries {
		if entry.Duration.StoppedAt == "" {
			continue
		}
		started, err := timeutil.Parse(entry.Duration.StartedAt)
		if err != nil {
			continue
		}
		stopped, err := timeutil.Parse(entry.Duration.StoppedAt)
		if err != nil {
			continue
		}
		minutes := int(stopped.Sub(started).Minutes())
		if minutes < 0 {
			continue
		}
		name := entry.ActivityName()
		if name == "" {
			name = "Unknown"
		}
		b := buckets[name]
		if b == nil {
			b = &bucket{}
			buckets[name] = b
		}
		b.minutes += minutes
		b.count++
		total += minutes
	}

	report := Report{TotalMinutes: total}
	for name, b := range buckets {
		line := ReportLine{ActivityName: name, Minutes: b.minutes, EntryCount: b.count}
		if total > 0 {
			line.Percent = float64(b.minutes) / float64(total) * 100
		}
		report.Lines = append(report.Lines, line)
	}
	sort.Slice(report.Lines, func(i, j int) bool {
		if report.Lines[i].Minutes != report.Lines[j].Minutes {
			return report.Lines[i].Minutes > report.Lines[j].Minutes
		}
		return report.Lines[i].ActivityName < report.Lines[j].ActivityName
	})
	return report
}
