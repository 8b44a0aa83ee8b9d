package tracker

import (
	"testing"

	"github.com/villeh/early-mcp/internal/core/models"
)

func entry(name, startedAt, stoppedAt string) models.TimeEntry {
	return models.TimeEntry{
		Activity: &models.Activity{Name: name},
		Duration: models.Duration{StartedAt: startedAt, StoppedAt: stoppedAt},
	}
}

func TestBuildReportAggregatesByActivity(t *testing.T) {
	report := BuildReport([]models.TimeEntry{
		entry("Writing", "2025-10-14T06:00:00.000", "2025-10-14T07:30:00.000"),
		entry("Email", "2025-10-14T08:00:00.000", "2025-10-14T08:30:00.000"),
		entry("Writing", "2025-10-14T09:00:00.000", "2025-10-14T09:30:00.000"),
	})

	if report.TotalMinutes != 150 {
		t.Errorf("total = %d, want 150", report.TotalMinutes)
	}
	if len(report.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(report.Lines))
	}
	writing := report.Lines[0]
	if writing.ActivityName != "Writing" || writing.Minutes != 120 || writing.EntryCount != 2 {
		t.Errorf("unexpected first line: %+v", writing)
	}
	if writing.Percent != 80 {
		t.Errorf("percent = %v, want 80", writing.Percent)
	}
}

func TestBuildReportSkipsRunningEntries(t *testing.T) {
	report := BuildReport([]models.TimeEntry{
		entry("Writing", "2025-10-14T06:00:00.000", "2025-10-14T07:00:00.000"),
		entry("Writing", "2025-10-14T08:00:00.000", ""),
	})
	if report.TotalMinutes != 60 {
		t.Errorf("total = %d, want 60 (running entry excluded)", report.TotalMinutes)
	}
}

func TestBuildReportEmptyInput(t *testing.T) {
	report := BuildReport(nil)
	if report.TotalMinutes != 0 || len(report.Lines) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}

func TestBuildReportStableOrderOnTies(t *testing.T) {
	report := BuildReport([]models.TimeEntry{
		entry("Beta", "2025-10-14T06:00:00.000", "2025-10-14T06:30:00.000"),
		entry("Alpha", "2025-10-14T07:00:00.000", "2025-10-14T07:30:00.000"),
	})
	if len(report.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(report.Lines))
	}
	if report.Lines[0].ActivityName != "Alpha" {
		t.Errorf("tied lines should sort by name, got %q first", report.Lines[0].ActivityName)
	}
}

func TestBuildReportUnknownActivity(t *testing.T) {
	report := BuildReport([]models.TimeEntry{
		{Duration: models.Duration{StartedAt: "2025-10-14T06:00:00.000", StoppedAt: "2025-10-14T06:45:00.000"}},
	})
	if len(report.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(report.Lines))
	}
	if report.Lines[0].ActivityName != "Unknown" {
		t.Errorf("name = %q, want Unknown", report.Lines[0].ActivityName)
	}
}
