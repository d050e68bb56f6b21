package sheetsync

import (
	"time"

	"github.com/quizroyalty/scorekeep/pkg/logger"
)

// Option configures the sync client.
type Option func(*Client)

// WithTimeout sets the per-export request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxConns caps concurrent connections to the sync backend.
func WithMaxConns(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxConns = n
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
