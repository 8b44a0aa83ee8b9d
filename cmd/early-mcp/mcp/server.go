package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/villeh/early-mcp/internal/core/config"
	"github.com/villeh/early-mcp/internal/core/earlyapi"
	"github.com/villeh/early-mcp/internal/core/tracker"
)

// StartTimerArgs defines arguments for the start_timer tool
type StartTimerArgs struct {
	ActivityID string `json:"activity_id" jsonschema:"description=ID of the activity to track,required"`
	Note       string `json:"note,omitempty" jsonschema:"description=Optional note for the timer"`
	StartedAt  string `json:"started_at,omitempty" jsonschema:"description=Start time (ISO 8601 or natural language like '10 minutes ago'; default: now)"`
}

// StopTimerArgs defines arguments for the stop_timer tool
type StopTimerArgs struct {
	StoppedAt string `json:"stopped_at,omitempty" jsonschema:"description=Stop time (ISO 8601 or natural language; default: now)"`
}

// UpdateActiveTimerArgs defines arguments for the update_active_timer tool
type UpdateActiveTimerArgs struct {
	Note string `json:"note" jsonschema:"description=New note text for the running timer,required"`
}

// CreateTimeEntryArgs defines arguments for the create_time_entry tool
type CreateTimeEntryArgs struct {
	ActivityID string  `json:"activity_id" jsonschema:"description=ID of the activity the entry belongs to,required"`
	StartedAt  string  `json:"started_at,omitempty" jsonschema:"description=Start time (ISO 8601 or natural language)"`
	StoppedAt  string  `json:"stopped_at,omitempty" jsonschema:"description=Stop time; omit with started_at for a still-running entry"`
	Duration   float64 `json:"duration,omitempty" jsonschema:"description=Duration in minutes ending now; alternative to explicit times"`
	Note       string  `json:"note,omitempty" jsonschema:"description=Optional note for the entry"`
}

// GetTimeEntryArgs defines arguments for the get_time_entry tool
type GetTimeEntryArgs struct {
	EntryID string `json:"entry_id" jsonschema:"description=ID of the time entry to fetch,required"`
}

// GetTimeEntriesArgs defines arguments for the get_time_entries tool
type GetTimeEntriesArgs struct {
	StartDate  string `json:"start_date,omitempty" jsonschema:"description=First day of the range (YYYY-MM-DD or natural language like 'yesterday'; default: today)"`
	EndDate    string `json:"end_date,omitempty" jsonschema:"description=Last day of the range (default: same as start_date)"`
	ActivityID string `json:"activity_id,omitempty" jsonschema:"description=Only entries for this activity"`
}

// EditTimeEntryArgs defines arguments for the edit_time_entry tool
type EditTimeEntryArgs struct {
	EntryID    string `json:"entry_id" jsonschema:"description=ID of the time entry to edit,required"`
	ActivityID string `json:"activity_id,omitempty" jsonschema:"description=Move the entry to this activity"`
	StartedAt  string `json:"started_at,omitempty" jsonschema:"description=New start time"`
	StoppedAt  string `json:"stopped_at,omitempty" jsonschema:"description=New stop time"`
	Note       string `json:"note,omitempty" jsonschema:"description=New note text"`
}

// DeleteTimeEntryArgs defines arguments for the delete_time_entry tool
type DeleteTimeEntryArgs struct {
	EntryID string `json:"entry_id" jsonschema:"description=ID of the time entry to delete,required"`
}

// ListActivitiesArgs defines arguments for the list_activities tool
type ListActivitiesArgs struct {
	IncludeArchived bool `json:"include_archived,omitempty" jsonschema:"description=Include inactive and archived activities (default: active only)"`
}

// CreateActivityArgs defines arguments for the create_activity tool
type CreateActivityArgs struct {
	Name        string `json:"name" jsonschema:"description=Activity name,required"`
	Description string `json:"description,omitempty" jsonschema:"description=Activity description"`
	Color       string `json:"color,omitempty" jsonschema:"description=Hex color like #3d85c6"`
	Billable    bool   `json:"billable,omitempty" jsonschema:"description=Whether time on this activity is billable"`
}

// UpdateActivityArgs defines arguments for the update_activity tool
type UpdateActivityArgs struct {
	ActivityID  string `json:"activity_id" jsonschema:"description=ID of the activity to update,required"`
	Name        string `json:"name,omitempty" jsonschema:"description=New activity name"`
	Description string `json:"description,omitempty" jsonschema:"description=New description"`
	Color       string `json:"color,omitempty" jsonschema:"description=New hex color"`
	Billable    *bool  `json:"billable,omitempty" jsonschema:"description=New billable flag"`
}

// ArchiveActivityArgs defines arguments for the archive_activity tool
type ArchiveActivityArgs struct {
	ActivityID string `json:"activity_id" jsonschema:"description=ID of the activity to archive,required"`
}

// GenerateReportArgs defines arguments for the generate_report tool
type GenerateReportArgs struct {
	StartDate  string `json:"start_date,omitempty" jsonschema:"description=First day of the report (default: start of this week)"`
	EndDate    string `json:"end_date,omitempty" jsonschema:"description=Last day of the report (default: end of this week)"`
	ActivityID string `json:"activity_id,omitempty" jsonschema:"description=Only report time on this activity"`
}

// deps bundles what every tool handler needs.
type deps struct {
	cfg    *config.Config
	client *earlyapi.Client
	timer  *tracker.Timer
}

// NewServer builds the MCP server with all tools and resources registered.
func NewServer(cfg *config.Config, version string) *server.MCPServer {
	client := earlyapi.NewClient(cfg.BaseURL, cfg.APIKey, cfg.APISecret, cfg.Timeout)
	d := &deps{
		cfg:    cfg,
		client: client,
		timer:  tracker.NewTimer(client),
	}

	s := server.NewMCPServer(
		"Early",
		version,
		server.WithResourceCapabilities(false, false),
	)

	registerTimerTools(s, d)
	registerEntryTools(s, d)
	registerActivityTools(s, d)
	registerReportTools(s, d)
	registerResources(s, d)

	return s
}

// StartServer runs the MCP server over stdio until the client disconnects.
func StartServer(cfg *config.Config, version string) error {
	return server.ServeStdio(NewServer(cfg, version))
}

func registerTimerTools(s *server.MCPServer, d *deps) {
	startTool := mcp.NewTool("start_timer",
		mcp.WithDescription("Start tracking time on an activity. Use list_activities to find activity IDs. If a timer is already running the API decides what happens; this tool does not stop it first."),
		mcp.WithString("activity_id",
			mcp.Required(),
			mcp.Description("ID of the activity to track")),
		mcp.WithString("note",
			mcp.Description("Optional note for the timer")),
		mcp.WithString("started_at",
			mcp.Description("Start time (ISO 8601 or natural language like '10 minutes ago'; default: now)")),
	)
	s.AddTool(startTool, makeStartTimerHandler(d))

	stopTool := mcp.NewTool("stop_timer",
		mcp.WithDescription("Stop the currently running timer and return the completed time entry. Succeeds with a notice when no timer is running."),
		mcp.WithString("stopped_at",
			mcp.Description("Stop time (ISO 8601 or natural language; default: now)")),
	)
	s.AddTool(stopTool, makeStopTimerHandler(d))

	activeTool := mcp.NewTool("get_active_timer",
		mcp.WithDescription("Show the currently running timer, or report that none is running."),
	)
	s.AddTool(activeTool, makeGetActiveTimerHandler(d))

	updateTool := mcp.NewTool("update_active_timer",
		mcp.WithDescription("Replace the note on the currently running timer. Succeeds with a notice when no timer is running."),
		mcp.WithString("note",
			mcp.Required(),
			mcp.Description("New note text for the running timer")),
	)
	s.AddTool(updateTool, makeUpdateActiveTimerHandler(d))
}

func registerEntryTools(s *server.MCPServer, d *deps) {
	createTool := mcp.NewTool("create_time_entry",
		mcp.WithDescription("Create a time entry for an activity. Pass explicit start/stop times, a duration in minutes ending now, or just a start time for a still-running entry."),
		mcp.WithString("activity_id",
			mcp.Required(),
			mcp.Description("ID of the activity the entry belongs to")),
		mcp.WithString("started_at",
			mcp.Description("Start time (ISO 8601 or natural language; default: now, or computed from duration)")),
		mcp.WithString("stopped_at",
			mcp.Description("Stop time; omit with started_at for a still-running entry")),
		mcp.WithNumber("duration",
			mcp.Description("Duration in minutes ending now; alternative to explicit times")),
		mcp.WithString("note",
			mcp.Description("Optional note for the entry")),
	)
	s.AddTool(createTool, makeCreateTimeEntryHandler(d))

	getTool := mcp.NewTool("get_time_entry",
		mcp.WithDescription("Fetch a single time entry by ID."),
		mcp.WithString("entry_id",
			mcp.Required(),
			mcp.Description("ID of the time entry to fetch")),
	)
	s.AddTool(getTool, makeGetTimeEntryHandler(d))

	listTool := mcp.NewTool("get_time_entries",
		mcp.WithDescription("List time entries in a date range. Defaults to today. Dates accept YYYY-MM-DD or natural language like 'yesterday' or 'last monday'."),
		mcp.WithString("start_date",
			mcp.Description("First day of the range (default: today)")),
		mcp.WithString("end_date",
			mcp.Description("Last day of the range (default: same as start_date)")),
		mcp.WithString("activity_id",
			mcp.Description("Only entries for this activity")),
	)
	s.AddTool(listTool, makeGetTimeEntriesHandler(d))

	editTool := mcp.NewTool("edit_time_entry",
		mcp.WithDescription("Edit an existing time entry. Only the fields you pass are changed."),
		mcp.WithString("entry_id",
			mcp.Required(),
			mcp.Description("ID of the time entry to edit")),
		mcp.WithString("activity_id",
			mcp.Description("Move the entry to this activity")),
		mcp.WithString("started_at",
			mcp.Description("New start time")),
		mcp.WithString("stopped_at",
			mcp.Description("New stop time")),
		mcp.WithString("note",
			mcp.Description("New note text")),
	)
	s.AddTool(editTool, makeEditTimeEntryHandler(d))

	deleteTool := mcp.NewTool("delete_time_entry",
		mcp.WithDescription("Permanently delete a time entry."),
		mcp.WithString("entry_id",
			mcp.Required(),
			mcp.Description("ID of the time entry to delete")),
	)
	s.AddTool(deleteTool, makeDeleteTimeEntryHandler(d))
}

func registerActivityTools(s *server.MCPServer, d *deps) {
	listTool := mcp.NewTool("list_activities",
		mcp.WithDescription("List activities with their IDs. Active activities only by default."),
		mcp.WithBoolean("include_archived",
			mcp.Description("Include inactive and archived activities")),
	)
	s.AddTool(listTool, makeListActivitiesHandler(d))

	createTool := mcp.NewTool("create_activity",
		mcp.WithDescription("Create a new activity to track time against."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Activity name")),
		mcp.WithString("description",
			mcp.Description("Activity description")),
		mcp.WithString("color",
			mcp.Description("Hex color like #3d85c6")),
		mcp.WithBoolean("billable",
			mcp.Description("Whether time on this activity is billable")),
	)
	s.AddTool(createTool, makeCreateActivityHandler(d))

	updateTool := mcp.NewTool("update_activity",
		mcp.WithDescription("Update an activity's name, description, color, or billable flag."),
		mcp.WithString("activity_id",
			mcp.Required(),
			mcp.Description("ID of the activity to update")),
		mcp.WithString("name",
			mcp.Description("New activity name")),
		mcp.WithString("description",
			mcp.Description("New description")),
		mcp.WithString("color",
			mcp.Description("New hex color")),
		mcp.WithBoolean("billable",
			mcp.Description("New billable flag")),
	)
	s.AddTool(updateTool, makeUpdateActivityHandler(d))

	archiveTool := mcp.NewTool("archive_activity",
		mcp.WithDescription("Archive an activity. Archived activities keep their time entries but no longer appear in the active list."),
		mcp.WithString("activity_id",
			mcp.Required(),
			mcp.Description("ID of the activity to archive")),
	)
	s.AddTool(archiveTool, makeArchiveActivityHandler(d))
}

func registerReportTools(s *server.MCPServer, d *deps) {
	reportTool := mcp.NewTool("generate_report",
		mcp.WithDescription("Summarize tracked time by activity over a date range. Defaults to this week."),
		mcp.WithString("start_date",
			mcp.Description("First day of the report (default: start of this week)")),
		mcp.WithString("end_date",
			mcp.Description("Last day of the report (default: end of this week)")),
		mcp.WithString("activity_id",
			mcp.Description("Only report time on this activity")),
	)
	s.AddTool(reportTool, makeGenerateReportHandler(d))
}
