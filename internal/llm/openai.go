package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openaiClient implements TextGenerator against any OpenAI-compatible chat
// completions endpoint (OpenAI, vLLM, Groq).
type openaiClient struct {
	cfg      LLMConfig
	client   openai.Client
	observer Observer
}

// NewOpenAIClient creates a TextGenerator for an OpenAI-compatible backend.
// The SDK's own retries are disabled.
func NewOpenAIClient(cfg LLMConfig, observer Observer) TextGenerator {
	if observer == nil {
		observer = NoopObserver{}
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if endpoint := cfg.EndpointOrDefault(); endpoint != "" {
		opts = append(opts, option.WithBaseURL(endpoint))
	}
	return &openaiClient{
		cfg:      cfg,
		client:   openai.NewClient(opts...),
		observer: observer,
	}
}

func (c *openaiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	p := resolveParams(c.cfg, req)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.UserPrompt))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.cfg.Model),
		Messages:    messages,
		Temperature: openai.Float(p.temperature),
		MaxTokens:   openai.Int(int64(p.maxTokens)),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			err = fmt.Errorf("%w: openai returned status %d", ErrUnavailable, apiErr.StatusCode)
		}
		err = classifyError(ctx, err)
		observeCall(c.observer, req.Task, ProviderOpenAI, c.cfg.Model, start, err)
		return nil, err
	}

	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		observeCall(c.observer, req.Task, ProviderOpenAI, c.cfg.Model, start, ErrEmptyResponse)
		return nil, ErrEmptyResponse
	}

	latency := observeCall(c.observer, req.Task, ProviderOpenAI, c.cfg.Model, start, nil)
	return &GenerateResponse{
		Text:      completion.Choices[0].Message.Content,
		Model:     completion.Model,
		LatencyMs: latency,
	}, nil
}

func (c *openaiClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := c.client.Models.Get(ctx, c.cfg.Model)
	return err == nil
}
