package insight

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/smarrtifai/github-optimizer/pkg/logger"
	"github.com/smarrtifai/github-optimizer/pkg/metrics"
)

const (
	// DefaultModel is used unless WithModel says otherwise.
	DefaultModel = "gemini-1.5-flash"
	// MinLength is the shortest text accepted as a report.
	MinLength = 50

	defaultTimeout  = 60 * time.Second
	temperature     = 0.5
	topP            = 0.8
	maxOutputTokens = 1024
)

// Generator produces report text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini is a Generator backed by the Gemini API.
type Gemini struct {
	client     *genai.Client
	model      string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     logger.Logger
}

var _ Generator = (*Gemini)(nil)

// NewGemini creates a generator. An empty apiKey yields ErrNotConfigured.
func NewGemini(ctx context.Context, apiKey string, opts ...Option) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	g := &Gemini{
		model:   DefaultModel,
		timeout: defaultTimeout,
		logger:  logger.Get().Named("insight"),
	}
	for _, opt := range opts {
		opt(g)
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	}
	if g.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("insight: create client: %w", err)
	}
	g.client = client
	return g, nil
}

// Generate implements Generator. Text shorter than MinLength after trimming
// is rejected with ErrTooShort.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	const op = "insight.Generate"
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](temperature),
		TopP:            genai.Ptr[float32](topP),
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		metrics.RecordInsight("error", metrics.Since(start))
		g.logger.Error(ctx, "model call failed", logger.String("model", g.model), logger.Error(err))
		return "", fmt.Errorf("%s: %w: %v", op, ErrGeneration, err)
	}

	text := responseText(resp)
	if len(strings.TrimSpace(text)) < MinLength {
		metrics.RecordInsight("too_short", metrics.Since(start))
		return "", fmt.Errorf("%s: %w (%d chars)", op, ErrTooShort, len(strings.TrimSpace(text)))
	}
	metrics.RecordInsight("ok", metrics.Since(start))
	g.logger.Debug(ctx, "insight generated", logger.Int("chars", len(text)))
	return text, nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
