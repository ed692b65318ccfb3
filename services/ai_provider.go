package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"healthdash/config"
)

// TextGenerator is a single-turn text completion service.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to TextGenerator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// missingCredential fails every call without touching the network.
type missingCredential struct{ name string }

func (m missingCredential) Generate(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: %s is missing", ErrMissingCredential, m.name)
}

// NewTextGenerator builds the provider selected by cfg, wrapped with retries.
func NewTextGenerator(ctx context.Context, cfg config.AIConfig, log *zap.Logger) (TextGenerator, error) {
	var gen TextGenerator
	switch cfg.Provider {
	case config.ProviderGemini, "":
		if cfg.GeminiAPIKey == "" {
			return missingCredential{name: "GEMINI_API_KEY"}, nil
		}
		g, err := NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		gen = g
	case config.ProviderHuggingFace:
		if cfg.HuggingFaceToken == "" {
			return missingCredential{name: "HUGGINGFACE_TOKEN"}, nil
		}
		gen = NewHuggingFaceGenerator(cfg.HuggingFaceURL, cfg.HuggingFaceToken, cfg.HuggingFaceModel, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
	}
	return NewRetryGenerator(gen, cfg.MaxRetries, cfg.Timeout, log), nil
}

// ---------- Gemini ----------

type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}

// ---------- Hugging Face ----------

// HuggingFaceGenerator calls the hosted inference API for text2text models.
type HuggingFaceGenerator struct {
	client *resty.Client
	model  string
}

func NewHuggingFaceGenerator(baseURL, token, model string, timeout time.Duration) *HuggingFaceGenerator {
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co"
	}
	if model == "" {
		model = "google/flan-t5-small"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		// load cold models instead of returning a "loading" error
		SetHeader("x-wait-for-model", "true").
		SetTimeout(timeout)
	return &HuggingFaceGenerator{client: c, model: model}
}

type hfRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// StatusError is a non-2xx reply from an HTTP provider.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider api error (%d): %s", e.Code, e.Message)
}

// Temporary reports whether retrying may help.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

func (g *HuggingFaceGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(&hfRequest{
			Inputs:     prompt,
			Parameters: map[string]any{"max_new_tokens": 512, "temperature": 0.2},
		}).
		Post("/models/" + g.model)
	if err != nil {
		return "", fmt.Errorf("hf request: %w", err)
	}

	// surface {"error": "..."} bodies; fall back to the raw text
	if resp.StatusCode() != http.StatusOK {
		var hfErr struct {
			Error string `json:"error"`
		}
		msg := resp.String()
		if json.Unmarshal(resp.Body(), &hfErr) == nil && hfErr.Error != "" {
			msg = hfErr.Error
		}
		return "", &StatusError{Code: resp.StatusCode(), Message: msg}
	}

	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		preview := resp.String()
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return "", fmt.Errorf("decode hf response: %v | body: %s", err, preview)
	}
	if len(out) == 0 {
		return "", nil
	}
	return out[0].GeneratedText, nil
}

// ---------- Retry ----------

// RetryGenerator retries transport and 5xx failures with exponential backoff.
// Missing credentials, client errors and cancellation fail immediately.
type RetryGenerator struct {
	next       TextGenerator
	maxRetries int
	timeout    time.Duration
	log        *zap.Logger

	// newBackOff is swapped in tests to avoid sleeping.
	newBackOff func() backoff.BackOff
}

func NewRetryGenerator(next TextGenerator, maxRetries int, timeout time.Duration, log *zap.Logger) *RetryGenerator {
	return &RetryGenerator{
		next:       next,
		maxRetries: maxRetries,
		timeout:    timeout,
		log:        log,
		newBackOff: func() backoff.BackOff {
			exp := backoff.NewExponentialBackOff()
			exp.InitialInterval = 500 * time.Millisecond
			exp.Multiplier = 2
			exp.MaxInterval = 8 * time.Second
			return exp
		},
	}
}

func (r *RetryGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var text string
	attempt := 0
	op := func() error {
		attempt++
		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if r.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		}
		defer cancel()

		out, err := r.next.Generate(callCtx, prompt)
		if err == nil {
			text = out
			return nil
		}
		if !retryable(ctx, err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(max(r.maxRetries, 0))), ctx)
	err := backoff.RetryNotify(op, b, func(err error, wait time.Duration) {
		r.log.Warn("AI request failed, retrying", zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
	})
	return text, err
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, ErrMissingCredential) || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}

// ---------- Metrics ----------

// instrumented records request counts and latency per flow.
type instrumented struct {
	flow string
	next TextGenerator
}

func Instrument(flow string, next TextGenerator) TextGenerator {
	return instrumented{flow: flow, next: next}
}

func (i instrumented) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := i.next.Generate(ctx, prompt)
	aiRequestDuration.WithLabelValues(i.flow).Observe(time.Since(start).Seconds())
	aiRequestsTotal.WithLabelValues(i.flow, outcomeLabel(err)).Inc()
	return out, err
}
