package models

import (
	"encoding/json"
	"testing"
)

func TestCreateTimeEntryRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateTimeEntryRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req: CreateTimeEntryRequest{
				ActivityID: "act-1",
				StartedAt:  "2025-10-14T06:00:19.657",
				Note:       &Note{Text: "writing docs"},
			},
			wantErr: false,
		},
		{
			name:    "missing activity",
			req:     CreateTimeEntryRequest{StartedAt: "2025-10-14T06:00:19.657"},
			wantErr: true,
		},
		{
			name:    "missing start",
			req:     CreateTimeEntryRequest{ActivityID: "act-1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateTimeEntryRequestValidation(t *testing.T) {
	empty := UpdateTimeEntryRequest{}
	if err := empty.Validate(); err == nil {
		t.Error("expected error for empty update")
	}

	withNote := UpdateTimeEntryRequest{Note: &Note{Text: "new note"}}
	if err := withNote.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTimeEntryIsRunning(t *testing.T) {
	running := TimeEntry{Duration: Duration{StartedAt: "2025-10-14T06:00:00.000"}}
	if !running.IsRunning() {
		t.Error("entry without stoppedAt should be running")
	}

	stopped := TimeEntry{Duration: Duration{
		StartedAt: "2025-10-14T06:00:00.000",
		StoppedAt: "2025-10-14T07:00:00.000",
	}}
	if stopped.IsRunning() {
		t.Error("entry with stoppedAt should not be running")
	}
}

func TestTimeEntryAccessorsTolerateMissingFields(t *testing.T) {
	var e TimeEntry
	if e.ActivityName() != "" {
		t.Errorf("expected empty activity name, got %q", e.ActivityName())
	}
	if e.NoteText() != "" {
		t.Errorf("expected empty note text, got %q", e.NoteText())
	}

	e.Activity = &Activity{ID: "act-1", Name: "Deep Work"}
	e.Note = &Note{Text: "heads down"}
	if e.ActivityName() != "Deep Work" {
		t.Errorf("unexpected activity name: %q", e.ActivityName())
	}
	if e.NoteText() != "heads down" {
		t.Errorf("unexpected note text: %q", e.NoteText())
	}
}

func TestUpdateRequestOmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(UpdateTimeEntryRequest{Note: &Note{Text: "x"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(m) != 1 {
		t.Errorf("expected only note field, got %v", m)
	}
	if _, ok := m["note"]; !ok {
		t.Errorf("note field missing: %v", m)
	}
}
