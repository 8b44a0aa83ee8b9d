package models

import "errors"

// Note is the structured note object Early attaches to entries and sessions.
type Note struct {
	Text string `json:"text"`
}

// Duration holds the start/stop pair of an entry or session. Timestamps are
// Early-format strings (ISO-8601 without trailing Z, interpreted as UTC).
// StoppedAt is empty while the entry is still running.
type Duration struct {
	StartedAt string `json:"startedAt"`
	StoppedAt string `json:"stoppedAt,omitempty"`
}

// Activity is a trackable project/category time is logged against.
type Activity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	ClientID    string `json:"clientId,omitempty"`
	Billable    bool   `json:"billable,omitempty"`
	Status      string `json:"status,omitempty"` // active, inactive, archived
}

// TimeEntry is a completed (or still running) record of time on an activity.
type TimeEntry struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activityId,omitempty"`
	Activity   *Activity `json:"activity,omitempty"`
	Duration   Duration  `json:"duration"`
	Note       *Note     `json:"note,omitempty"`
}

// TrackingSession is the single currently open timer. Stopping it turns it
// into a TimeEntry upstream.
type TrackingSession struct {
	ID       string    `json:"id"`
	Activity *Activity `json:"activity,omitempty"`
	Duration Duration  `json:"duration"`
	Note     *Note     `json:"note,omitempty"`
}

// ActivitiesResponse is the GET /api/v4/activities shape: three buckets by
// status.
type ActivitiesResponse struct {
	Activities         []Activity `json:"activities"`
	InactiveActivities []Activity `json:"inactiveActivities"`
	ArchivedActivities []Activity `json:"archivedActivities"`
}

// TimeEntriesResponse is the GET /api/v4/time-entries/{start}/{end} shape.
type TimeEntriesResponse struct {
	TimeEntries []TimeEntry `json:"timeEntries"`
}

// CreateTimeEntryRequest is the body for POST /api/v4/time-entries.
type CreateTimeEntryRequest struct {
	ActivityID string `json:"activityId"`
	Note       *Note  `json:"note,omitempty"`
	StartedAt  string `json:"startedAt,omitempty"`
	StoppedAt  string `json:"stoppedAt,omitempty"`
}

// UpdateTimeEntryRequest is the body for PATCH /api/v4/time-entries/{id}.
// Zero-valued fields are omitted so partial updates stay partial.
type UpdateTimeEntryRequest struct {
	ActivityID string `json:"activityId,omitempty"`
	Note       *Note  `json:"note,omitempty"`
	StartedAt  string `json:"startedAt,omitempty"`
	StoppedAt  string `json:"stoppedAt,omitempty"`
}

// CreateActivityRequest is the body for POST /api/v2/activities.
type CreateActivityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	ClientID    string `json:"clientId,omitempty"`
	Billable    bool   `json:"billable,omitempty"`
}

// UpdateActivityRequest is the body for PUT /api/v2/activities/{id}.
type UpdateActivityRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	ClientID    string `json:"clientId,omitempty"`
	Billable    *bool  `json:"billable,omitempty"`
	Status      string `json:"status,omitempty"`
}

// IsRunning reports whether the entry has not been stopped yet.
func (e *TimeEntry) IsRunning() bool {
	return e.Duration.StoppedAt == ""
}

// ActivityName returns the linked activity name, or empty when the upstream
// omitted the expansion.
func (e *TimeEntry) ActivityName() string {
	if e.Activity != nil {
		return e.Activity.Name
	}
	return ""
}

// NoteText returns the note text, or empty when no note is attached.
func (e *TimeEntry) NoteText() string {
	if e.Note != nil {
		return e.Note.Text
	}
	return ""
}

// ActivityName returns the linked activity name, or empty.
func (s *TrackingSession) ActivityName() string {
	if s.Activity != nil {
		return s.Activity.Name
	}
	return ""
}

// NoteText returns the note text, or empty.
func (s *TrackingSession) NoteText() string {
	if s.Note != nil {
		return s.Note.Text
	}
	return ""
}

// Validate checks the request has the fields Early requires.
func (r *CreateTimeEntryRequest) Validate() error {
	if r.ActivityID == "" {
		return errors.New("activityId is required")
	}
	if r.StartedAt == "" {
		return errors.New("startedAt is required")
	}
	return nil
}

// Validate checks that at least one field is being updated.
func (r *UpdateTimeEntryRequest) Validate() error {
	if r.ActivityID == "" && r.Note == nil && r.StartedAt == "" && r.StoppedAt == "" {
		return errors.New("at least one field must be provided to update")
	}
	return nil
}

// Validate checks the request has the fields Early requires.
func (r *CreateActivityRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}
