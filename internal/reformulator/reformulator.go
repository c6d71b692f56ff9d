// Package reformulator rewrites a decision record for a target audience via
// an LLM. It is strictly a downstream formatter: the call is per-record,
// cancelable and retryable, and a failure here never invalidates the
// already-computed CrossReferenceResult: callers keep the record and simply
// miss the prose.
package reformulator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/prospectscan/prospectscan/internal/logging"
	"github.com/prospectscan/prospectscan/internal/model"
)

// Audience selects the register the record is rewritten into.
type Audience string

const (
	AudienceExecutive Audience = "executive"
	AudienceSales     Audience = "sales"
	AudienceTechnical Audience = "technical"
)

// ValidAudience reports whether a is one of the supported audiences.
func ValidAudience(a Audience) bool {
	return a == AudienceExecutive || a == AudienceSales || a == AudienceTechnical
}

// Config holds the client settings.
type Config struct {
	APIKey string

	// Model is the Gemini model name; empty picks a sane default.
	Model string

	// MaxRetries bounds transient-failure retries per call; 0 means 2.
	MaxRetries int

	// RetryBackoff is the base backoff between attempts; 0 means 500ms.
	RetryBackoff time.Duration
}

// Reformulator wraps a Gemini client.
type Reformulator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	cfg    Config
	logger logging.Logger
}

// New creates a Reformulator. The API key is required; everything else has
// defaults.
func New(ctx context.Context, cfg Config, logger logging.Logger) (*Reformulator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("reformulator: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("reformulator")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("reformulator: creating client: %w", err)
	}
	m := client.GenerativeModel(cfg.Model)
	m.SetTemperature(0.3)

	return &Reformulator{client: client, model: m, cfg: cfg, logger: logger}, nil
}

// Close releases the underlying client.
func (r *Reformulator) Close() {
	if r.client != nil {
		r.client.Close()
	}
}

// Reformulate rewrites one decision record for the given audience. Retries
// transient failures up to the configured bound, honoring ctx cancelation
// between attempts.
func (r *Reformulator) Reformulate(ctx context.Context, res model.CrossReferenceResult, aud Audience) (string, error) {
	prompt, err := BuildPrompt(res, aud)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(r.cfg.RetryBackoff * time.Duration(attempt)):
			}
			r.logger.Warn("retrying reformulation",
				logging.Field{Key: "domain", Value: res.Domain},
				logging.Field{Key: "attempt", Value: attempt})
		}

		resp, err := r.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = err
			continue
		}
		text := extractText(resp)
		if text == "" {
			lastErr = fmt.Errorf("reformulator: empty response")
			continue
		}
		return text, nil
	}
	return "", fmt.Errorf("reformulator: reformulating %s for %s: %w", res.Domain, aud, lastErr)
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			out += string(t)
		}
	}
	return out
}
