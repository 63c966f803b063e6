// Package arena is the HTTP client for the arena backend REST API.
package arena

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

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/pkg/metrics"
)

const defaultTimeout = 15 * time.Second

// Client talks to the backend. It is safe for concurrent use; the caller's
// token travels per request, never on the client.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for baseURL. A nil httpClient gets a default
// with a 15s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// BaseURL returns the backend origin the client was built for.
func (c *Client) BaseURL() string { return c.baseURL }

type errorBody struct {
	Detail any `json:"detail"`
}

// do sends one request. endpoint is the metric label, kept free of IDs.
// A nil out or a 204 skips decoding.
func (c *Client) do(ctx context.Context, method, path, endpoint, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	metrics.BackendRequestDuration.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &domain.APIError{Status: resp.StatusCode, Detail: domain.DefaultAPIDetail}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	if json.Unmarshal(raw, &eb) != nil {
		return apiErr
	}
	switch d := eb.Detail.(type) {
	case string:
		if d != "" {
			apiErr.Detail = d
		}
	case nil:
	default:
		// Validation errors come back as a list of objects.
		if b, err := json.Marshal(d); err == nil {
			apiErr.Detail = string(b)
		}
	}
	return apiErr
}

func (c *Client) Protected(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/auth/protected", "auth_protected", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type teamEnvelope struct {
	Team *domain.Team `json:"team"`
}

func (c *Client) CreateTeam(ctx context.Context, token string, in domain.CreateTeamInput) (*domain.Team, error) {
	var out teamEnvelope
	if err := c.do(ctx, http.MethodPost, "/teams", "teams_create", token, in, &out); err != nil {
		return nil, err
	}
	return out.Team, nil
}

// MyTeam returns nil without error when the caller owns no team.
func (c *Client) MyTeam(ctx context.Context, token string) (*domain.Team, error) {
	var out teamEnvelope
	if err := c.do(ctx, http.MethodGet, "/teams/me", "teams_me", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Team, nil
}

func (c *Client) Team(ctx context.Context, token, teamID string) (*domain.Team, error) {
	var out teamEnvelope
	if err := c.do(ctx, http.MethodGet, "/teams/"+url.PathEscape(teamID), "teams_get", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Team, nil
}

type agentEnvelope struct {
	Agent  *domain.Agent  `json:"agent"`
	Agents []domain.Agent `json:"agents"`
}

func (c *Client) CreateAgent(ctx context.Context, token string, in domain.CreateAgentInput) (*domain.Agent, error) {
	var out agentEnvelope
	if err := c.do(ctx, http.MethodPost, "/agents", "agents_create", token, in, &out); err != nil {
		return nil, err
	}
	return out.Agent, nil
}

func (c *Client) MyAgents(ctx context.Context, token string) ([]domain.Agent, error) {
	var out agentEnvelope
	if err := c.do(ctx, http.MethodGet, "/agents/me", "agents_me", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Agents, nil
}

func (c *Client) Agent(ctx context.Context, token, agentID string) (*domain.Agent, error) {
	var out agentEnvelope
	if err := c.do(ctx, http.MethodGet, "/agents/"+url.PathEscape(agentID), "agents_get", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Agent, nil
}

type roomEnvelope struct {
	Room  *domain.Room  `json:"room"`
	Rooms []domain.Room `json:"rooms"`
}

func (c *Client) CreateRoom(ctx context.Context, token string, in domain.CreateRoomInput) (*domain.Room, error) {
	var out roomEnvelope
	if err := c.do(ctx, http.MethodPost, "/rooms", "rooms_create", token, in, &out); err != nil {
		return nil, err
	}
	return out.Room, nil
}

func (c *Client) JoinRoom(ctx context.Context, token, roomID, agentID string) (map[string]any, error) {
	var out map[string]any
	body := map[string]string{"agent_id": agentID}
	if err := c.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/join", "rooms_join", token, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Room(ctx context.Context, token, roomID string) (*domain.Room, error) {
	var out roomEnvelope
	if err := c.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape(roomID), "rooms_get", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Room, nil
}

func (c *Client) Rooms(ctx context.Context, token string) ([]domain.Room, error) {
	var out roomEnvelope
	if err := c.do(ctx, http.MethodGet, "/rooms", "rooms_list", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Rooms, nil
}

type raceEnvelope struct {
	Race        *domain.Race              `json:"race"`
	Races       []domain.Race             `json:"races"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	Stats       *domain.DashboardSummary  `json:"stats"`
}

// Races lists races, filtered by status when status is non-empty.
func (c *Client) Races(ctx context.Context, token, status string) ([]domain.Race, error) {
	path := "/races"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}
	var out raceEnvelope
	if err := c.do(ctx, http.MethodGet, path, "races_list", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Races, nil
}

func (c *Client) Race(ctx context.Context, token, raceID string) (*domain.Race, error) {
	var out raceEnvelope
	if err := c.do(ctx, http.MethodGet, "/races/"+url.PathEscape(raceID), "races_get", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Race, nil
}

func (c *Client) Leaderboard(ctx context.Context, token, raceID string) ([]domain.LeaderboardEntry, error) {
	var out raceEnvelope
	if err := c.do(ctx, http.MethodGet, "/races/"+url.PathEscape(raceID)+"/leaderboard", "races_leaderboard", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Leaderboard, nil
}

func (c *Client) StopRace(ctx context.Context, token, raceID string) error {
	return c.do(ctx, http.MethodPost, "/races/"+url.PathEscape(raceID)+"/stop", "races_stop", token, nil, nil)
}

func (c *Client) DashboardSummary(ctx context.Context, token string) (*domain.DashboardSummary, error) {
	var out raceEnvelope
	if err := c.do(ctx, http.MethodGet, "/races/summary/dashboard", "races_summary", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Stats, nil
}

type telemetryEnvelope struct {
	Telemetry []domain.TelemetryFrame `json:"telemetry"`
}

func (c *Client) LatestTelemetry(ctx context.Context, token, raceID string) ([]domain.TelemetryFrame, error) {
	var out telemetryEnvelope
	if err := c.do(ctx, http.MethodGet, "/telemetry/"+url.PathEscape(raceID), "telemetry_latest", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Telemetry, nil
}

func (c *Client) ClearTelemetry(ctx context.Context, token, raceID string) error {
	return c.do(ctx, http.MethodDelete, "/telemetry/"+url.PathEscape(raceID), "telemetry_clear", token, nil, nil)
}
