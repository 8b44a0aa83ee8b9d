package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/villeh/early-mcp/internal/core/models"
)

// resourceError is the JSON document returned when a resource read fails.
// Resources cannot carry tool-style error results, so the failure is a
// document with the same debug fields the tools report.
type resourceError struct {
	Error     string `json:"error"`
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	BaseURL   string `json:"base_url"`
}

func registerResources(s *server.MCPServer, d *deps) {
	todayEntries := mcp.NewResource(
		"early://time-entries/today",
		"Today's time entries",
		mcp.WithResourceDescription("Time entries recorded today, as JSON"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(todayEntries, makeEntriesResource(d, "early://time-entries/today", d.client.TodayTimeEntries))

	weekEntries := mcp.NewResource(
		"early://time-entries/week",
		"This week's time entries",
		mcp.WithResourceDescription("Time entries recorded this week, as JSON"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(weekEntries, makeEntriesResource(d, "early://time-entries/week", d.client.ThisWeekTimeEntries))

	allActivities := mcp.NewResource(
		"early://activities",
		"All activities",
		mcp.WithResourceDescription("All activities including inactive and archived, as JSON"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(allActivities, makeActivitiesResource(d, "early://activities", d.client.AllActivities))

	activeActivities := mcp.NewResource(
		"early://activities/active",
		"Active activities",
		mcp.WithResourceDescription("Activities currently available for tracking, as JSON"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(activeActivities, makeActivitiesResource(d, "early://activities/active", d.client.ActiveActivities))
}

func makeEntriesResource(d *deps, uri string, fetch func() ([]models.TimeEntry, error)) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		entries, err := fetch()
		if err != nil {
			return errorDocument(d, uri, err), nil
		}
		if entries == nil {
			entries = []models.TimeEntry{}
		}
		return jsonDocument(uri, entries), nil
	}
}

func makeActivitiesResource(d *deps, uri string, fetch func() ([]models.Activity, error)) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		activities, err := fetch()
		if err != nil {
			return errorDocument(d, uri, err), nil
		}
		if activities == nil {
			activities = []models.Activity{}
		}
		return jsonDocument(uri, activities), nil
	}
}

func jsonDocument(uri string, v interface{}) []mcp.ResourceContents {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		data = []byte(`{"error":"failed to encode response"}`)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}
}

func errorDocument(d *deps, uri string, err error) []mcp.ResourceContents {
	doc := resourceError{
		Error:     err.Error(),
		APIKey:    presence(d.cfg.APIKey),
		APISecret: presence(d.cfg.APISecret),
		BaseURL:   d.client.BaseURL(),
	}
	return jsonDocument(uri, doc)
}
