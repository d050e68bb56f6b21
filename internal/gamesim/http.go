package gamesim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// client is a thin JSON client for the scorekeep API.
type client struct {
	base string
	http *http.Client
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		base: baseURL,
		http: &http.Client{Timeout: timeout},
	}
}

// apiError is the server's error envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// do sends a request with an optional JSON body and decodes the JSON
// response into out when out is non-nil.
func (c *client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %d %s: %s", method, path, resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *client) health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *client) createSeason(ctx context.Context, name string) (Season, error) {
	var s Season
	err := c.do(ctx, http.MethodPost, "/seasons", map[string]interface{}{
		"name":   name,
		"active": true,
	}, &s)
	return s, err
}

func (c *client) createTeam(ctx context.Context, name string) (Team, error) {
	var t Team
	err := c.do(ctx, http.MethodPost, "/teams", map[string]interface{}{"name": name}, &t)
	return t, err
}

func (c *client) createHost(ctx context.Context, name string) (Host, error) {
	var h Host
	err := c.do(ctx, http.MethodPost, "/hosts", map[string]interface{}{"name": name}, &h)
	return h, err
}

func (c *client) createGame(ctx context.Context, seasonID, hostID, title string) (Game, error) {
	var g Game
	err := c.do(ctx, http.MethodPost, "/games", map[string]interface{}{
		"seasonId": seasonID,
		"hostIds":  []string{hostID},
		"type":     "regular",
		"title":    title,
		"playedAt": time.Now().UTC().Format(time.RFC3339),
	}, &g)
	return g, err
}

func (c *client) startGame(ctx context.Context, gameID string) error {
	return c.do(ctx, http.MethodPost, "/games/"+gameID+"/start", nil, nil)
}

func (c *client) setTeams(ctx context.Context, gameID string, teamIDs []string) error {
	return c.do(ctx, http.MethodPut, "/games/"+gameID+"/teams", map[string]interface{}{
		"teamIds": teamIDs,
	}, nil)
}

func (c *client) setBonusRound(ctx context.Context, gameID string, enabled bool) error {
	return c.do(ctx, http.MethodPost, "/games/"+gameID+"/bonus-round", map[string]interface{}{
		"enabled": enabled,
	}, nil)
}

// recordResult writes a result at the game's current stage coordinate.
// A nil points pointer leaves the value to the server's sticky default.
func (c *client) recordResult(ctx context.Context, gameID string, teamIDs []string, points *int) error {
	body := map[string]interface{}{"teamIds": teamIDs}
	if points != nil {
		body["points"] = *points
	}
	return c.do(ctx, http.MethodPut, "/games/"+gameID+"/results", body, nil)
}

func (c *client) advance(ctx context.Context, gameID string) (StageUpdate, error) {
	var u StageUpdate
	err := c.do(ctx, http.MethodPost, "/games/"+gameID+"/advance", nil, &u)
	return u, err
}

func (c *client) addAdjustment(ctx context.Context, gameID, teamID string, points, setIndex int, reason string) error {
	return c.do(ctx, http.MethodPost, "/games/"+gameID+"/adjustments", map[string]interface{}{
		"teamId":   teamID,
		"points":   points,
		"setIndex": setIndex,
		"reason":   reason,
	}, nil)
}

func (c *client) archiveGame(ctx context.Context, gameID string) error {
	return c.do(ctx, http.MethodPost, "/games/"+gameID+"/archive", nil, nil)
}

func (c *client) scoreboard(ctx context.Context, gameID string) (Scoreboard, error) {
	var b Scoreboard
	err := c.do(ctx, http.MethodGet, "/games/"+gameID+"/scoreboard", nil, &b)
	return b, err
}

func (c *client) standings(ctx context.Context, seasonID string) ([]Standing, error) {
	var rows []Standing
	err := c.do(ctx, http.MethodGet, "/seasons/"+seasonID+"/standings", nil, &rows)
	return rows, err
}
