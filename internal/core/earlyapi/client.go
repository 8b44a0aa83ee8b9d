// Package earlyapi is an HTTP client for the Early time-tracking Public API.
// It owns the sign-in session: callers never handle the bearer token, every
// domain call authenticates on first use.
package earlyapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/villeh/early-mcp/internal/core/models"
	"github.com/villeh/early-mcp/internal/core/timeutil"
)

// DefaultBaseURL is the production Early API host.
const DefaultBaseURL = "https://api.early.app"

const userAgent = "early-mcp/1.0"

// Client is an authenticated Early API client. Credentials are fixed at
// construction; the bearer token is acquired lazily and guarded by a mutex
// (concurrent re-auth is idempotent, last writer wins).
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

// NewClient creates a client for the given base URL and API credentials.
// baseURL may be empty to use the production host; timeout <= 0 defaults to
// 30 seconds.
func NewClient(baseURL, apiKey, apiSecret string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the configured upstream host.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// --- Session ---

type signInRequest struct {
	APIKey    string `json:"apiKey"`
	APISecret string `json:"apiSecret"`
}

type signInResponse struct {
	Token string `json:"token"`
}

// Authenticate signs in with the configured API key and secret and stores
// the returned bearer token for subsequent calls. Any failure is an
// auth-kind error carrying the upstream status and message.
func (c *Client) Authenticate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticateLocked()
}

func (c *Client) authenticateLocked() error {
	if c.apiKey == "" || c.apiSecret == "" {
		return &APIError{Kind: KindAuth, Message: "API key and API secret are required for authentication"}
	}

	var resp signInResponse
	err := c.roundTrip(http.MethodPost, "/api/v4/developer/sign-in",
		signInRequest{APIKey: c.apiKey, APISecret: c.apiSecret}, &resp, "")
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			// Sign-in failures are authentication failures whatever the
			// upstream status was.
			return &APIError{Kind: KindAuth, Status: apiErr.Status, Message: apiErr.Message, Detail: apiErr.Detail}
		}
		return &APIError{Kind: KindAuth, Message: fmt.Sprintf("sign-in failed: %v", err)}
	}

	c.token = resp.Token
	return nil
}

// ensureAuthenticated signs in when no token is held. Idempotent; the gate
// every domain call passes before issuing its own request.
func (c *Client) ensureAuthenticated() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return nil
	}
	return c.authenticateLocked()
}

// IsAuthenticated reports whether a bearer token is held. Local state only,
// never a network call.
func (c *Client) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != ""
}

// Logout invalidates the session upstream, best effort. Local token state is
// cleared unconditionally, even when the upstream call fails.
func (c *Client) Logout() {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == "" {
		return
	}

	// Upstream errors are deliberately swallowed; the caller's intent is a
	// cleared session either way.
	_ = c.roundTrip(http.MethodPost, "/api/v4/developer/logout", nil, nil, token)

	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// FetchAPIKey returns the account's current API key for reference.
func (c *Client) FetchAPIKey() (string, error) {
	var resp struct {
		APIKey string `json:"apiKey"`
	}
	if err := c.authed(http.MethodGet, "/api/v4/developer/api-access", nil, &resp); err != nil {
		return "", err
	}
	return resp.APIKey, nil
}

// TestConnection reports whether the configured credentials can sign in.
func (c *Client) TestConnection() bool {
	return c.Authenticate() == nil
}

// --- Tracking ---

// CurrentTracking fetches the open tracking session. A not-found error means
// no timer is running; callers translate that to absence.
func (c *Client) CurrentTracking() (*models.TrackingSession, error) {
	var session models.TrackingSession
	if err := c.authed(http.MethodGet, "/api/v4/tracking", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// StartTracking starts a timer on the given activity. startedAt must be an
// Early wire timestamp; empty means now.
func (c *Client) StartTracking(activityID string, note *models.Note, startedAt string) (*models.TrackingSession, error) {
	if activityID == "" {
		return nil, ValidationError("activity ID is required to start a timer")
	}
	if startedAt == "" {
		startedAt = timeutil.Now()
	}

	body := struct {
		StartedAt string       `json:"startedAt"`
		Note      *models.Note `json:"note,omitempty"`
	}{StartedAt: startedAt, Note: note}

	var session models.TrackingSession
	err := c.authed(http.MethodPost, "/api/v4/tracking/"+url.PathEscape(activityID)+"/start", body, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// StopTracking stops the running timer at the given instant and returns the
// resulting closed entry.
func (c *Client) StopTracking(stoppedAt string) (*models.TimeEntry, error) {
	if stoppedAt == "" {
		stoppedAt = timeutil.Now()
	}
	body := map[string]string{"stoppedAt": stoppedAt}

	var entry models.TimeEntry
	if err := c.authed(http.MethodPost, "/api/v4/tracking/stop", body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// EditTracking replaces the note of the running session.
func (c *Client) EditTracking(id string, note *models.Note) (*models.TrackingSession, error) {
	if id == "" {
		return nil, ValidationError("tracking session ID is required")
	}
	body := struct {
		Note *models.Note `json:"note"`
	}{Note: note}

	var session models.TrackingSession
	err := c.authed(http.MethodPatch, "/api/v4/tracking/"+url.PathEscape(id), body, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// --- Time entries ---

// TimeEntriesInRange returns entries between two Early wire timestamps.
func (c *Client) TimeEntriesInRange(start, end string) ([]models.TimeEntry, error) {
	if start == "" || end == "" {
		return nil, ValidationError("start and end timestamps are required")
	}
	var resp models.TimeEntriesResponse
	path := "/api/v4/time-entries/" + url.PathEscape(start) + "/" + url.PathEscape(end)
	if err := c.authed(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.TimeEntries, nil
}

// TodayTimeEntries returns entries for the local calendar day.
func (c *Client) TodayTimeEntries() ([]models.TimeEntry, error) {
	start, end := timeutil.DayRange(timeutil.CurrentDateLocal())
	return c.TimeEntriesInRange(start, end)
}

// ThisWeekTimeEntries returns entries for the current week, Sunday through
// Saturday.
func (c *Client) ThisWeekTimeEntries() ([]models.TimeEntry, error) {
	start, end := timeutil.WeekRange(time.Now())
	return c.TimeEntriesInRange(start, end)
}

// GetTimeEntry fetches one entry by id. Not-found here is a genuine failure.
func (c *Client) GetTimeEntry(id string) (*models.TimeEntry, error) {
	if id == "" {
		return nil, ValidationError("time entry ID is required")
	}
	var entry models.TimeEntry
	if err := c.authed(http.MethodGet, "/api/v4/time-entries/"+url.PathEscape(id), nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateTimeEntry creates a completed or still-running entry.
func (c *Client) CreateTimeEntry(req models.CreateTimeEntryRequest) (*models.TimeEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, ValidationError("%s", err)
	}
	var entry models.TimeEntry
	if err := c.authed(http.MethodPost, "/api/v4/time-entries", req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateTimeEntry patches an existing entry.
func (c *Client) UpdateTimeEntry(id string, req models.UpdateTimeEntryRequest) (*models.TimeEntry, error) {
	if id == "" {
		return nil, ValidationError("time entry ID is required")
	}
	if err := req.Validate(); err != nil {
		return nil, ValidationError("%s", err)
	}
	var entry models.TimeEntry
	if err := c.authed(http.MethodPatch, "/api/v4/time-entries/"+url.PathEscape(id), req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteTimeEntry removes an entry.
func (c *Client) DeleteTimeEntry(id string) error {
	if id == "" {
		return ValidationError("time entry ID is required")
	}
	return c.authed(http.MethodDelete, "/api/v4/time-entries/"+url.PathEscape(id), nil, nil)
}

// --- Activities ---

// Activities returns the raw three-bucket activities response.
func (c *Client) Activities() (*models.ActivitiesResponse, error) {
	var resp models.ActivitiesResponse
	if err := c.authed(http.MethodGet, "/api/v4/activities", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ActiveActivities returns only the active bucket.
func (c *Client) ActiveActivities() ([]models.Activity, error) {
	resp, err := c.Activities()
	if err != nil {
		return nil, err
	}
	return stampStatus(resp.Activities, "active"), nil
}

// AllActivities flattens the three buckets, stamping each activity's status.
func (c *Client) AllActivities() ([]models.Activity, error) {
	resp, err := c.Activities()
	if err != nil {
		return nil, err
	}
	all := stampStatus(resp.Activities, "active")
	all = append(all, stampStatus(resp.InactiveActivities, "inactive")...)
	all = append(all, stampStatus(resp.ArchivedActivities, "archived")...)
	return all, nil
}

func stampStatus(activities []models.Activity, status string) []models.Activity {
	out := make([]models.Activity, 0, len(activities))
	for _, a := range activities {
		if a.Status == "" {
			a.Status = status
		}
		out = append(out, a)
	}
	return out
}

// CreateActivity creates a new activity. Activity management lives on the
// v2 paths.
func (c *Client) CreateActivity(req models.CreateActivityRequest) (*models.Activity, error) {
	if err := req.Validate(); err != nil {
		return nil, ValidationError("%s", err)
	}
	var activity models.Activity
	if err := c.authed(http.MethodPost, "/api/v2/activities", req, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// UpdateActivity replaces mutable fields of an activity.
func (c *Client) UpdateActivity(id string, req models.UpdateActivityRequest) (*models.Activity, error) {
	if id == "" {
		return nil, ValidationError("activity ID is required")
	}
	var activity models.Activity
	if err := c.authed(http.MethodPut, "/api/v2/activities/"+url.PathEscape(id), req, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// ArchiveActivity soft-deletes an activity; history is preserved upstream.
func (c *Client) ArchiveActivity(id string) error {
	if id == "" {
		return ValidationError("activity ID is required")
	}
	return c.authed(http.MethodDelete, "/api/v2/activities/"+url.PathEscape(id), nil, nil)
}

// AssignActivityDeviceSide maps an activity to a physical tracker side.
func (c *Client) AssignActivityDeviceSide(activityID, side string) error {
	if activityID == "" || side == "" {
		return ValidationError("activity ID and device side are required")
	}
	path := "/api/v2/activities/" + url.PathEscape(activityID) + "/device-side/" + url.PathEscape(side)
	return c.authed(http.MethodPost, path, nil, nil)
}

// --- HTTP plumbing ---

// authed runs one authenticated request, signing in first when needed.
func (c *Client) authed(method, path string, body, out any) error {
	if err := c.ensureAuthenticated(); err != nil {
		return err
	}
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	return c.roundTrip(method, path, body, out, token)
}

func (c *Client) roundTrip(method, path string, body, out any, token string) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: KindUpstream, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: KindUpstream, Status: resp.StatusCode, Message: "read response: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, upstreamMessage(respBody, resp.Status), string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &APIError{Kind: KindUpstream, Status: resp.StatusCode, Message: "decode response: " + err.Error(), Detail: string(respBody)}
		}
	}
	return nil
}

// upstreamMessage digs the human message out of Early's error bodies, which
// come as either {message} or {error:{message}}.
func upstreamMessage(body []byte, fallback string) string {
	var parsed struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}
	}
	return fallback
}
