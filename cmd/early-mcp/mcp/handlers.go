package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/villeh/early-mcp/internal/core/earlyapi"
	"github.com/villeh/early-mcp/internal/core/format"
	"github.com/villeh/early-mcp/internal/core/models"
	"github.com/villeh/early-mcp/internal/core/timeutil"
	"github.com/villeh/early-mcp/internal/core/tracker"
)

const noTimerNotice = "⚠️ No timer is currently running."

func parseArgs(request mcp.CallToolRequest, out interface{}) error {
	argsBytes, _ := json.Marshal(request.Params.Arguments)
	return json.Unmarshal(argsBytes, out)
}

func presence(v string) string {
	if v == "" {
		return "Missing"
	}
	return "Present"
}

// failure builds the normalized error payload every tool returns: a human
// summary first, then a debug block with credential presence, the base URL,
// the arguments as received, and the raw upstream detail when there is one.
func (d *deps) failure(summary string, err error, args map[string]string) *mcp.CallToolResult {
	var b strings.Builder
	b.WriteString("❌ ")
	b.WriteString(summary)

	var apiErr *earlyapi.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Kind == earlyapi.KindAuth:
			b.WriteString("\n\nAuthentication with the Early API failed. Check that EARLY_API_KEY and EARLY_API_SECRET are set to a valid credential pair (Early app: Settings > API).")
		case apiErr.Status == 400 && strings.Contains(strings.ToLower(apiErr.Message+apiErr.Detail), "minute"):
			b.WriteString("\n\n⚠️ Timers must run for at least 1 minute before they can be stopped. Wait a moment and try again, or delete the timer instead.")
		}
	} else if err != nil {
		fmt.Fprintf(&b, "\n\n%v", err)
	}

	b.WriteString("\n\nDebug info:\n")
	fmt.Fprintf(&b, "- API Key: %s\n", presence(d.cfg.APIKey))
	fmt.Fprintf(&b, "- API Secret: %s\n", presence(d.cfg.APISecret))
	fmt.Fprintf(&b, "- Base URL: %s\n", d.client.BaseURL())

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %q\n", k, args[k])
	}

	if apiErr != nil {
		fmt.Fprintf(&b, "- Status: %d (%s)\n", apiErr.Status, apiErr.Kind)
		fmt.Fprintf(&b, "- Upstream message: %s\n", apiErr.Message)
		if apiErr.Detail != "" && apiErr.Detail != apiErr.Message {
			fmt.Fprintf(&b, "\nUpstream response:\n%s\n", apiErr.Detail)
		}
	}

	return mcp.NewToolResultError(b.String())
}

// wireTime converts a user-supplied time (ISO 8601 or natural language) to
// the Early wire format. Empty input stays empty so call sites can default
// to "now".
func wireTime(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	t, err := timeutil.ParseUserTime(s, time.Now())
	if err != nil {
		return "", err
	}
	return timeutil.Format(t), nil
}

// dateRange resolves the start/end date arguments shared by the listing and
// report tools into wire timestamps covering whole days.
func dateRange(startArg, endArg string, defaultWeek bool) (string, string, error) {
	now := time.Now()
	if startArg == "" && endArg == "" {
		if defaultWeek {
			start, end := timeutil.WeekRange(now)
			return start, end, nil
		}
		start, end := timeutil.DayRange(timeutil.CurrentDateLocal())
		return start, end, nil
	}

	startDate := timeutil.CurrentDateLocal()
	if startArg != "" {
		d, err := timeutil.ParseUserDate(startArg, now)
		if err != nil {
			return "", "", fmt.Errorf("could not understand start_date %q", startArg)
		}
		startDate = d
	}
	endDate := startDate
	if endArg != "" {
		d, err := timeutil.ParseUserDate(endArg, now)
		if err != nil {
			return "", "", fmt.Errorf("could not understand end_date %q", endArg)
		}
		endDate = d
	}

	start, _ := timeutil.DayRange(startDate)
	_, end := timeutil.DayRange(endDate)
	return start, end, nil
}

func makeStartTimerHandler(d *deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args StartTimerArgs
		if err := parseArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		debug := map[string]string{"activity_id": args.ActivityID, "note": args.Note, "started_at": args.StartedAt}

		startedAt, err := wireTime(args.StartedAt)
		if err != nil {
			return d.failure(fmt.Sprintf("Could not understand started_at %q.", args.StartedAt), err, debug), nil
		}
		session, err := d.timer.Start(args.ActivityID, args.Note, startedAt)
		if err != nil {
			return d.failure("Failed to start the timer.", err, debug), nil
		}
		return mcp.NewToolResultText(format.TimerStarted(d.cfg.TimerStartedTemplate, session)), nil
	}
}

func makeStopTimerHandler(d *deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args StopTimerArgs
		if err := parseArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		debug := map[string]string{"stopped_at": args.StoppedAt}

		stoppedAt, err := wireTime(args.StoppedAt)
		if err != nil {
			return d.failure(fmt.Sprintf("Could not understand stopped_at %q.", args.StoppedAt), err, debug), nil
		}
		entry, err := d.timer.Stop(stoppedAt)
		if err != nil {
			return d.failure("Failed to stop the timer.", err, debug), nil
		}
		if entry == nil {
			return mcp.NewToolResultText(noTimerNotice), nil
		}
		return mcp.NewToolResultText(format.TimerStopped(d.cfg.TimerStoppedTemplate, entry)), nil
	}
}

func makeGetActiveTimerHandler(d *deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		session, err := d.timer.Current()
		if err != nil {
			return d.failure("Failed to read the active timer.", err, nil), nil
		}
		if session == nil {
			return mcp.NewToolResultText(noTimerNotice), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "⏱️ Tracking %q, started %s (%s).",
			session.ActivityName(),
			timeutil.LocalClock(session.Duration.StartedAt),
			format.RelativeTime(session.Duration.StartedAt))
		if note := session.NoteText(); note != "" {
			fmt.Fprintf(&b, "\nNote: %s", note)
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func makeUpdateActiveTimerHandler(d *deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args UpdateActiveTimerArgs
		if err := parseArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		debug := map[string]string{"note": args.Note}

		session, err := d.timer.EditNote(args.Note)
		if err != nil {
			return d.failure("Failed to update the timer note.", err, debug), nil
		}
		if session == nil {
			return mcp.NewToolResultText(noTimerNotice), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("✅ Updated note on %q: %s", session.ActivityName(), session.NoteText())), nil
	}
}

func makeCreateTimeEntryHandler(d *deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args CreateTimeEntryArgs
		if err := parseArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		debug := map[string]string{
			"activity_id": args.ActivityID,
			"started_at":  args.StartedAt,
			"stopped_at":  args.StoppedAt,
			"duration":    fmt.Sprintf("%g", args.Duration),
			"note":        args.Note,
		}

		startedAt, err := wireTime(args.StartedAt)
		if err != nil {
			return d.failure(fmt.Sprintf("Could not understand started_at %q.", args.StartedAt), err, debug), nil
		}
		stoppedAt, err := wireTime(args.StoppedAt)
		if err != nil {
			return d.failure(fmt.Sprintf("Could not understand stopped_at %q.", args.StoppedAt), err, debug), nil
		}

		// An explicit start/stop pair wins over duration. Duration back-dates
		// an entry ending now; a lone start time creates a still-running
		// entry; nothing at all starts one now.
		switch {
		case startedAt != "" && stoppedAt != "":
		case args.Duration > 0:
			now := time.Now()
			startedAt = timeutil.Format(now.Add(-time.Duration(args.Duration * float64(time.Minute))))
			stoppedAt = timeutil.Format(now)
		case startedAt != "":
		default:
			startedAt = timeutil.Now()
		}

		req := models.CreateTimeEntryRequest{
			ActivityID: args.ActivityID,
			StartedAt:  startedAt,
			StoppedAt:  stoppedAt,
		}
		if args.Note != "" {
			req.Note = &models.Note{Text: args.Note}
		}
		entry, err := d.client.CreateTimeEntry(req)
		if err != nil {
			return d.failure("Failed to create the time entry.", err, debug), nil
		}
		return mcp.NewToolResultText("✅ Created time entry.\n" + format.EntryLine(entry)), nil
	}
}

func makeGetTimeEntryHandler(d *deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args GetTimeEntryArgs
		if err := parseArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		debug := map[string]string{"entry_id": args.EntryID}

		entry, err := d.client.GetTimeEntry(args.EntryID)
		if err != nil {
			return d.failure("Failed to fetch the time entry.", err, debug), nil
		}
		return mcp.NewToolResultText(format.EntryLine(entry)), nil
	}
}

func makeGetTimeEntriesHandler(d *deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args GetTimeEntriesArgs
		if err := parseArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		debug := map[string]string{"start_date": args.StartDate, "end_date": args.EndDate, "activity_id": args.ActivityID}

		start, end, err := dateRange(args.StartDate, args.EndDate, false)
		if err != nil {
			return d.failure(err.Error(), nil, debug), nil
		}
		entries, err := d.client.TimeEntriesInRange(start, end)
		if err != nil {
			return d.failure("Failed to fetch time entries.", err, debug), nil
		}
		return mcp.NewToolResultText(renderEntries(filterByActivity(entries, args.ActivityID), start, end)), nil
	}
}

// filterByActivity narrows entries to one activity. The range endpoint has no
// server-side filter, so this happens on the fetched page.
func filterByActivity(entries []models.TimeEntry, activityID string) []models.TimeEntry {
	if activityID == "" {
		return entries
	}
	var out []models.TimeEntry
	for _, e := range entries {
		id := e.ActivityID
		if id == "" && e.Activity != nil {
			id = e.Activity.ID
		}
		if id == activityID {
			out = append(out, e)
		}
	}
	return out
}

func renderEntries(entries []models.TimeEntry, start, end string) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No time entries between %s and %s.", start[:10], end[:10])
	}
	var b strings.Builder
	var total int
	fmt.Fprintf(&b, "Time entries %s to %s:\n", start[:10], end[:10])
	for i := range entries {
		b.WriteString(format.EntryLine(&entries[i]))
		b.WriteByte('\n')
		total += format.EntryMinutes(entries[i].Duration.StartedAt, entries[i].Duration.StoppedAt)
	}
	fmt.Fprintf(&b, "\nTotal: %s across %d entries.", format.Duration(total), len(entries))
	return b.String()
}

func makeEditTimeEntryHandler(d *deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args EditTimeEntryArgs
		if err := parseArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		debug := map[string]string{
			"entry_id":    args.EntryID,
			"activity_id": args.ActivityID,
			"started_at":  args.StartedAt,
			"stopped_at":  args.StoppedAt,
			"note":        args.Note,
		}

		startedAt, err := wireTime(args.StartedAt)
		if err != nil {
			return d.failure(fmt.Sprintf("Could not understand started_at %q.", args.StartedAt), err, debug), nil
		}
		stoppedAt, err := wireTime(args.StoppedAt)
		if err != nil {
			return d.failure(fmt.Sprintf("Could not understand stopped_at %q.", args.StoppedAt), err, debug), nil
		}

		req := models.UpdateTimeEntryRequest{
			ActivityID: args.ActivityID,
			StartedAt:  startedAt,
			StoppedAt:  stoppedAt,
		}
		if args.Note != "" {
			req.Note = &models.Note{Text: args.Note}
		}
		entry, err := d.client.UpdateTimeEntry(args.EntryID, req)
		if err != nil {
			return d.failure("Failed to edit the time entry.", err, debug), nil
		}
		return mcp.NewToolResultText("✅ Updated time entry.\n" + format.EntryLine(entry)), nil
	}
}

func makeDeleteTimeEntryHandler(d *deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args DeleteTimeEntryArgs
		if err := parseArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		debug := map[string]string{"entry_id": args.EntryID}

		if err := d.client.DeleteTimeEntry(args.EntryID); err != nil {
			return d.failure("Failed to delete the time entry.", err, debug), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("✅ Deleted time entry %s.", args.EntryID)), nil
	}
}

func makeListActivitiesHandler(d *deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ListActivitiesArgs
		if err := parseArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		var (
			activities []models.Activity
			err        error
		)
		if args.IncludeArchived {
			activities, err = d.client.AllActivities()
		} else {
			activities, err = d.client.ActiveActivities()
		}
		if err != nil {
			return d.failure("Failed to fetch activities.", err, nil), nil
		}
		if len(activities) == 0 {
			return mcp.NewToolResultText("No activities found. Use create_activity to add one."), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%d activities:\n", len(activities))
		for i := range activities {
			b.WriteString(format.ActivityLine(&activities[i]))
			b.WriteByte('\n')
		}
		return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
	}
}

func makeCreateActivityHandler(d *deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args CreateActivityArgs
		if err := parseArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		debug := map[string]string{"name": args.Name, "color": args.Color}

		activity, err := d.client.CreateActivity(models.CreateActivityRequest{
			Name:        args.Name,
			Description: args.Description,
			Color:       args.Color,
			Billable:    args.Billable,
		})
		if err != nil {
			return d.failure("Failed to create the activity.", err, debug), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("✅ Created activity %q [id: %s].", activity.Name, activity.ID)), nil
	}
}

func makeUpdateActivityHandler(d *deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args UpdateActivityArgs
		if err := parseArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		debug := map[string]string{"activity_id": args.ActivityID, "name": args.Name}

		activity, err := d.client.UpdateActivity(args.ActivityID, models.UpdateActivityRequest{
			Name:        args.Name,
			Description: args.Description,
			Color:       args.Color,
			Billable:    args.Billable,
		})
		if err != nil {
			return d.failure("Failed to update the activity.", err, debug), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("✅ Updated activity %q [id: %s].", activity.Name, activity.ID)), nil
	}
}

func makeArchiveActivityHandler(d *deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ArchiveActivityArgs
		if err := parseArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		debug := map[string]string{"activity_id": args.ActivityID}

		if err := d.client.ArchiveActivity(args.ActivityID); err != nil {
			return d.failure("Failed to archive the activity.", err, debug), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("✅ Archived activity %s. Its time entries are preserved.", args.ActivityID)), nil
	}
}

func makeGenerateReportHandler(d *deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args GenerateReportArgs
		if err := parseArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		debug := map[string]string{"start_date": args.StartDate, "end_date": args.EndDate, "activity_id": args.ActivityID}

		start, end, err := dateRange(args.StartDate, args.EndDate, true)
		if err != nil {
			return d.failure(err.Error(), nil, debug), nil
		}
		entries, err := d.client.TimeEntriesInRange(start, end)
		if err != nil {
			return d.failure("Failed to fetch time entries for the report.", err, debug), nil
		}
		report := tracker.BuildReport(filterByActivity(entries, args.ActivityID))
		return mcp.NewToolResultText(renderReport(report, start, end)), nil
	}
}

func renderReport(report tracker.Report, start, end string) string {
	if report.TotalMinutes == 0 {
		return fmt.Sprintf("📊 No completed time between %s and %s.", start[:10], end[:10])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Report %s to %s (total %s):\n", start[:10], end[:10], format.Duration(report.TotalMinutes))
	for _, line := range report.Lines {
		fmt.Fprintf(&b, "%-30s %8s  %5.1f%%  (%d entries)\n",
			line.ActivityName, format.Duration(line.Minutes), line.Percent, line.EntryCount)
	}
	return strings.TrimRight(b.String(), "\n")
}
