// Package sheetsync pushes archived game scoreboards to the external
// spreadsheet-style sync backend over HTTP.
package sheetsync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quizroyalty/scorekeep/internal/adapters/mq/queue"
	"github.com/quizroyalty/scorekeep/pkg/logger"
	"github.com/valyala/fasthttp"
)

// Default client configuration constants.
const (
	defaultTimeout      = 10 * time.Second
	defaultMaxConns     = 100
	defaultIdleDuration = 1 * time.Minute
)

// payload is the row set posted to the sync backend. The spreadsheet
// identifier is the season, so one season maps to one sheet and each
// archived game replaces its own block of rows.
type payload struct {
	Spreadsheet string      `json:"spreadsheet"`
	GameID      string      `json:"gameId"`
	Title       string      `json:"title"`
	PlayedAt    time.Time   `json:"playedAt"`
	Rows        []queue.Row `json:"rows"`
}

// Client posts scoreboard snapshots to the sync backend.
// It satisfies the worker Exporter interface.
type Client struct {
	url      string
	timeout  time.Duration
	maxConns int
	client   *fasthttp.Client

	// Logging
	logger logger.Logger
}

// New creates a sync client for the given backend URL.
// An empty URL yields a disabled client whose Export is a no-op.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:      url,
		timeout:  defaultTimeout,
		maxConns: defaultMaxConns,
		logger:   logger.Get().Named("sheetsync"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = &fasthttp.Client{
		MaxConnsPerHost:     c.maxConns,
		ReadTimeout:         c.timeout,
		WriteTimeout:        c.timeout,
		MaxIdleConnDuration: defaultIdleDuration,
	}
	return c
}

// Enabled reports whether a sync backend is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.url != ""
}

// Export posts one archived game's scoreboard to the sync backend.
func (c *Client) Export(ctx context.Context, job queue.Job) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(payload{
		Spreadsheet: job.Game.SeasonID,
		GameID:      job.Game.ID,
		Title:       job.Game.Title,
		PlayedAt:    job.Game.PlayedAt,
		Rows:        job.Rows,
	})
	if err != nil {
		return fmt.Errorf("encode export payload: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("post scoreboard: %w", err)
	}

	status := resp.StatusCode()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return fmt.Errorf("sync backend returned %d", status)
	}

	c.logger.Debug(ctx, "scoreboard synced",
		logger.String("game_id", job.Game.ID),
		logger.Int("rows", len(job.Rows)),
	)
	return nil
}
