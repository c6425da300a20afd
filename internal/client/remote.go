package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/communitydesk/activityhub/internal/dto"
	"github.com/communitydesk/activityhub/internal/models"
)

// TransportError reports a failed call to the backend, carrying the server's
// error reason when one was returned. StatusCode is zero for network-level
// failures.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Remote reconciles the local collection with the authoritative backend.
// Per-item calls mirror the server-confirmed mutation into the collection;
// on failure the collection is left untouched and the error surfaces to the
// caller.
type Remote struct {
	baseURL string
	http    *http.Client
	col     *Collection
	logger  zerolog.Logger
}

// NewRemote builds a sync client for the given base URL. A nil httpClient
// falls back to a client with a 30s timeout.
func NewRemote(baseURL string, httpClient *http.Client, col *Collection, logger zerolog.Logger) *Remote {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		col:     col,
		logger:  logger.With().Str("component", "remote").Logger(),
	}
}

// FetchActivities retrieves the full server-side set and rebuilds the local
// collection from it in one swap, preserving the server-assigned ids.
func (r *Remote) FetchActivities(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	if err := r.do(ctx, http.MethodGet, "/api/activities", nil, &activities, "fetch activities"); err != nil {
		return nil, err
	}

	r.col.ReplaceList(activities)
	return activities, nil
}

// SyncActivities pushes the entire local membership to the bulk endpoint.
// The server upserts by id and returns the full post-sync set sorted by
// (date, time) ascending.
func (r *Remote) SyncActivities(ctx context.Context) ([]models.Activity, error) {
	var synced []models.Activity
	if err := r.do(ctx, http.MethodPost, "/api/activities/sync", r.col.ToArray(), &synced, "sync activities"); err != nil {
		return nil, err
	}
	return synced, nil
}

// GetActivity fetches a single activity by id.
func (r *Remote) GetActivity(ctx context.Context, id string) (models.Activity, error) {
	var activity models.Activity
	if err := r.do(ctx, http.MethodGet, "/api/activities/"+url.PathEscape(id), nil, &activity, "get activity"); err != nil {
		return models.Activity{}, err
	}
	return activity, nil
}

// CreateActivity creates the activity on the server and, on success, inserts
// the server-returned record (server-assigned id included) locally.
func (r *Remote) CreateActivity(ctx context.Context, req dto.CreateActivityRequest) (models.Activity, error) {
	var created models.Activity
	if err := r.do(ctx, http.MethodPost, "/api/activities", req, &created, "create activity"); err != nil {
		return models.Activity{}, err
	}
	r.col.Add(created)
	return created, nil
}

// UpdateActivity applies a partial update on the server and installs the
// server-returned record locally once confirmed.
func (r *Remote) UpdateActivity(ctx context.Context, id string, req dto.UpdateActivityRequest) (models.Activity, error) {
	var updated models.Activity
	if err := r.do(ctx, http.MethodPut, "/api/activities/"+url.PathEscape(id), req, &updated, "update activity"); err != nil {
		return models.Activity{}, err
	}
	r.col.Put(updated)
	return updated, nil
}

// DeleteActivity removes the activity on the server, then locally.
func (r *Remote) DeleteActivity(ctx context.Context, id string) error {
	if err := r.do(ctx, http.MethodDelete, "/api/activities/"+url.PathEscape(id), nil, nil, "delete activity"); err != nil {
		return err
	}
	r.col.Delete(id)
	return nil
}

// CompleteActivity transitions the activity on the server and installs the
// server-returned record locally. The server's state wins outright, so a
// stale local copy cannot diverge after a confirmed transition.
func (r *Remote) CompleteActivity(ctx context.Context, id string) error {
	var updated models.Activity
	if err := r.do(ctx, http.MethodPost, "/api/activities/"+url.PathEscape(id)+"/complete", nil, &updated, "complete activity"); err != nil {
		return err
	}
	r.col.Put(updated)
	return nil
}

// CancelActivity transitions the activity on the server and installs the
// server-returned record locally, with the same semantics as CompleteActivity.
func (r *Remote) CancelActivity(ctx context.Context, id string) error {
	var updated models.Activity
	if err := r.do(ctx, http.MethodPost, "/api/activities/"+url.PathEscape(id)+"/cancel", nil, &updated, "cancel activity"); err != nil {
		return err
	}
	r.col.Put(updated)
	return nil
}

// Upcoming fetches future, non-terminal activities sorted ascending by date.
func (r *Remote) Upcoming(ctx context.Context, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	path := "/api/activities/upcoming?limit=" + strconv.Itoa(limit)
	if err := r.do(ctx, http.MethodGet, path, nil, &activities, "fetch upcoming activities"); err != nil {
		return nil, err
	}
	return activities, nil
}

// Recent fetches completed activities sorted by completion date descending.
func (r *Remote) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	path := "/api/activities/recent?limit=" + strconv.Itoa(limit)
	if err := r.do(ctx, http.MethodGet, path, nil, &activities, "fetch recent activities"); err != nil {
		return nil, err
	}
	return activities, nil
}

// Mentors fetches the distinct mentor names across mentoring activities.
func (r *Remote) Mentors(ctx context.Context) ([]string, error) {
	var mentors []string
	if err := r.do(ctx, http.MethodGet, "/api/mentors", nil, &mentors, "fetch mentors"); err != nil {
		return nil, err
	}
	return mentors, nil
}

// Statistics fetches aggregate counts, optionally restricted to a date range.
func (r *Remote) Statistics(ctx context.Context, startDate, endDate string) (models.Stats, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}
	path := "/api/statistics"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var stats models.Stats
	if err := r.do(ctx, http.MethodGet, path, nil, &stats, "fetch statistics"); err != nil {
		return models.Stats{}, err
	}
	return stats, nil
}

// Dashboard fetches the aggregated dashboard payload.
func (r *Remote) Dashboard(ctx context.Context) (dto.DashboardResponse, error) {
	var dashboard dto.DashboardResponse
	if err := r.do(ctx, http.MethodGet, "/api/dashboard", nil, &dashboard, "fetch dashboard"); err != nil {
		return dto.DashboardResponse{}, err
	}
	return dashboard, nil
}

func (r *Remote) do(ctx context.Context, method, path string, body, out any, op string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.http.Do(req)
	if err != nil {
		r.logger.Error().Err(err).Str("op", op).Msg("request failed")
		return &TransportError{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		message := readErrorReason(resp.Body)
		r.logger.Error().Str("op", op).Int("status", resp.StatusCode).Str("reason", message).Msg("server rejected request")
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Message: message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &TransportError{Op: op, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}

// readErrorReason extracts the server's {"error": "..."} reason, falling
// back to the raw body.
func readErrorReason(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return "unreadable error response"
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}
