package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiClient implements TextGenerator using the Gemini API.
type geminiClient struct {
	cfg      LLMConfig
	client   *genai.Client
	observer Observer
}

// NewGeminiClient creates a TextGenerator backed by Gemini.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (TextGenerator, error) {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini requires an API key", ErrNotConfigured)
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if endpoint := cfg.EndpointOrDefault(); endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiClient{cfg: cfg, client: client, observer: observer}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	p := resolveParams(c.cfg, req)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](float32(p.temperature)),
		MaxOutputTokens: int32(p.maxTokens),
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(req.UserPrompt), config)
	if err != nil {
		err = classifyError(ctx, err)
		observeCall(c.observer, req.Task, ProviderGemini, c.cfg.Model, start, err)
		return nil, err
	}

	text := candidateText(resp)
	if strings.TrimSpace(text) == "" {
		observeCall(c.observer, req.Task, ProviderGemini, c.cfg.Model, start, ErrEmptyResponse)
		return nil, ErrEmptyResponse
	}

	latency := observeCall(c.observer, req.Task, ProviderGemini, c.cfg.Model, start, nil)
	return &GenerateResponse{
		Text:      text,
		Model:     c.cfg.Model,
		LatencyMs: latency,
	}, nil
}

// candidateText concatenates the text parts of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) string {
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

func (c *geminiClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := c.client.Models.Get(ctx, c.cfg.Model, nil)
	return err == nil
}
