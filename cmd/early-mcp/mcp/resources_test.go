package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/villeh/early-mcp/internal/core/models"
)

func TestTodayEntriesResource(t *testing.T) {
	d := newTestDeps(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.TimeEntriesResponse{TimeEntries: []models.TimeEntry{
			{ID: "ent-1", Activity: &models.Activity{Name: "Writing"}},
		}})
	})

	contents, err := makeEntriesResource(d, "early://time-entries/today", d.client.TodayTimeEntries)(
		context.Background(), mcpgo.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("resource error: %v", err)
	}
	text := contents[0].(mcpgo.TextResourceContents)
	if text.MIMEType != "application/json" {
		t.Errorf("mime type = %q", text.MIMEType)
	}
	var entries []models.TimeEntry
	if err := json.Unmarshal([]byte(text.Text), &entries); err != nil {
		t.Fatalf("resource is not valid JSON: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "ent-1" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestActivitiesResourceErrorDocument(t *testing.T) {
	d := newTestDeps(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	contents, err := makeActivitiesResource(d, "early://activities", d.client.AllActivities)(
		context.Background(), mcpgo.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("failures should become documents, not errors: %v", err)
	}
	text := contents[0].(mcpgo.TextResourceContents)
	var doc resourceError
	if err := json.Unmarshal([]byte(text.Text), &doc); err != nil {
		t.Fatalf("error document is not valid JSON: %v", err)
	}
	if doc.Error == "" || doc.APIKey != "Present" {
		t.Errorf("unexpected error document: %+v", doc)
	}
	if !strings.Contains(doc.BaseURL, "http") {
		t.Errorf("base URL missing: %+v", doc)
	}
}

func TestEmptyEntriesResourceIsEmptyArray(t *testing.T) {
	d := newTestDeps(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.TimeEntriesResponse{})
	})

	contents, err := makeEntriesResource(d, "early://time-entries/today", d.client.TodayTimeEntries)(
		context.Background(), mcpgo.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("resource error: %v", err)
	}
	text := contents[0].(mcpgo.TextResourceContents)
	if strings.TrimSpace(text.Text) != "[]" {
		t.Errorf("empty result should encode as [], got %q", text.Text)
	}
}
