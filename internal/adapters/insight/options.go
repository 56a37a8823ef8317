package insight

import (
	"net/http"
	"time"

	"github.com/smarrtifai/github-optimizer/pkg/logger"
)

// Option configures a Gemini generator.
type Option func(*Gemini)

// WithModel selects the model name.
func WithModel(model string) Option {
	return func(g *Gemini) {
		if model != "" {
			g.model = model
		}
	}
}

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(u string) Option {
	return func(g *Gemini) {
		g.baseURL = u
	}
}

// WithHTTPClient sets the HTTP client used for model calls.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gemini) {
		if c != nil {
			g.httpClient = c
		}
	}
}

// WithTimeout bounds a single generation call.
func WithTimeout(d time.Duration) Option {
	return func(g *Gemini) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Gemini) {
		if l != nil {
			g.logger = l
		}
	}
}
