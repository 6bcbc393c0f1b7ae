package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// GenerateRequest holds the parameters for a generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of a generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// TextGenerator is the capability every backend adapter provides: one
// blocking prompt-to-text round trip. Adapters never retry.
type TextGenerator interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the backend is reachable.
	Available(ctx context.Context) bool
}

// New builds the adapter selected by cfg.Provider, wrapped in a rate limiter
// when cfg.RatePerMin is set.
func New(ctx context.Context, cfg LLMConfig, observer Observer) (TextGenerator, error) {
	if !cfg.Enabled {
		return nil, ErrNotConfigured
	}
	var (
		gen TextGenerator
		err error
	)
	switch cfg.Provider {
	case ProviderOllama, "":
		gen = NewOllamaClient(cfg, observer)
	case ProviderOpenAI:
		gen = NewOpenAIClient(cfg, observer)
	case ProviderGemini:
		gen, err = NewGeminiClient(ctx, cfg, observer)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	if cfg.RatePerMin > 0 {
		gen = NewRateLimited(gen, cfg.RatePerMin)
	}
	return gen, nil
}

// callParams is the effective configuration for one request.
type callParams struct {
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

func resolveParams(cfg LLMConfig, req GenerateRequest) callParams {
	taskCfg := cfg.Tasks[req.Task]
	p := callParams{
		temperature: taskCfg.Temperature,
		maxTokens:   taskCfg.MaxTokens,
		timeout:     time.Duration(cfg.TaskTimeout(req.Task)) * time.Millisecond,
	}
	if req.Temperature != nil {
		p.temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		p.maxTokens = *req.MaxTokens
	}
	if p.timeout <= 0 {
		p.timeout = 30 * time.Second
	}
	return p
}

// ollamaClient implements TextGenerator using the Ollama HTTP API.
type ollamaClient struct {
	cfg      LLMConfig
	endpoint string
	http     *http.Client
	observer Observer
}

// NewOllamaClient creates a TextGenerator that talks to an Ollama instance.
func NewOllamaClient(cfg LLMConfig, observer Observer) TextGenerator {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &ollamaClient{
		cfg:      cfg,
		endpoint: cfg.EndpointOrDefault(),
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	p := resolveParams(c.cfg, req)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	body := ollamaRequest{
		Model:  c.cfg.Model,
		System: req.SystemPrompt,
		Prompt: req.UserPrompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: p.temperature,
			NumPredict:  p.maxTokens,
		},
	}

	resp, err := c.doRequest(ctx, body)
	if err != nil {
		err = classifyError(ctx, err)
		observeCall(c.observer, req.Task, ProviderOllama, c.cfg.Model, start, err)
		return nil, err
	}
	if strings.TrimSpace(resp.Response) == "" {
		observeCall(c.observer, req.Task, ProviderOllama, c.cfg.Model, start, ErrEmptyResponse)
		return nil, ErrEmptyResponse
	}

	latency := observeCall(c.observer, req.Task, ProviderOllama, c.cfg.Model, start, nil)
	return &GenerateResponse{
		Text:      resp.Response,
		Model:     resp.Model,
		LatencyMs: latency,
	}, nil
}

func (c *ollamaClient) doRequest(ctx context.Context, body ollamaRequest) (*ollamaResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.endpoint + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ollama returned status %d: %s", ErrUnavailable, httpResp.StatusCode, string(respBody))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
	}

	return &resp, nil
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// classifyError maps transport failures onto the package's sentinel errors.
func classifyError(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrInvalidOutput),
		errors.Is(err, ErrEmptyResponse), errors.Is(err, ErrTimeout):
		return err
	case ctx.Err() != nil, errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		// Refused connections, DNS failures and non-2xx answers all mean
		// the backend cannot serve this request.
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

func observeCall(obs Observer, task TaskType, provider Provider, model string, start time.Time, err error) int64 {
	latency := time.Since(start).Milliseconds()
	obs.OnCallComplete(LLMCallEvent{
		Task:      task,
		Provider:  provider,
		Model:     model,
		LatencyMs: latency,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return latency
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrEmptyResponse):
		return "EMPTY"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}
