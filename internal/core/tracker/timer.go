// Package tracker wraps the Early tracking endpoints with the single-active-
// timer semantics the tools expose: at most one timer runs at a time, and
// "no timer" is an ordinary state rather than an error.
package tracker

import (
	"github.com/villeh/early-mcp/internal/core/earlyapi"
	"github.com/villeh/early-mcp/internal/core/models"
)

// trackingAPI is the slice of the Early client the timer needs.
type trackingAPI interface {
	CurrentTracking() (*models.TrackingSession, error)
	StartTracking(activityID string, note *models.Note, startedAt string) (*models.TrackingSession, error)
	StopTracking(stoppedAt string) (*models.TimeEntry, error)
	EditTracking(id string, note *models.Note) (*models.TrackingSession, error)
}

// Timer manages the account's single active tracking session.
type Timer struct {
	api trackingAPI
}

func NewTimer(api trackingAPI) *Timer {
	return &Timer{api: api}
}

// Current returns the running session, or nil when no timer is active.
// The upstream signals absence with a 404 on the tracking read; that is
// translated here so callers never see it as an error.
func (t *Timer) Current() (*models.TrackingSession, error) {
	session, err := t.api.CurrentTracking()
	if err != nil {
		if earlyapi.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if session == nil || session.ID == "" {
		return nil, nil
	}
	return session, nil
}

// Start begins tracking the given activity. It does not check for an
// already-running timer; the upstream decides what happens in that case
// and its answer is returned as-is.
func (t *Timer) Start(activityID, note, startedAt string) (*models.TrackingSession, error) {
	if activityID == "" {
		return nil, earlyapi.ValidationError("activity ID is required to start a timer")
	}
	var n *models.Note
	if note != "" {
		n = &models.Note{Text: note}
	}
	return t.api.StartTracking(activityID, n, startedAt)
}

// Stop ends the running timer and returns the completed entry. When no
// timer is running it returns (nil, nil) without issuing a stop request.
func (t *Timer) Stop(stoppedAt string) (*models.TimeEntry, error) {
	session, err := t.Current()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	return t.api.StopTracking(stoppedAt)
}

// EditNote replaces the note on the running timer. When no timer is
// running it returns (nil, nil) without issuing a write.
func (t *Timer) EditNote(note string) (*models.TrackingSession, error) {
	session, err := t.Current()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	return t.api.EditTracking(session.ID, &models.Note{Text: note})
}
