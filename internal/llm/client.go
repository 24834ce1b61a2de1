package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	ai "github.com/sashabaranov/go-openai"

	"contoso/concierge/internal/auth"
	"contoso/concierge/internal/config"
)

// CompletionRequest carries everything one completion call needs.
type CompletionRequest struct {
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	Messages    []ai.ChatCompletionMessage
	Tools       []ai.Tool
}

// NewCompletionRequest builds a request from configuration plus the
// per-call conversation and tool definitions.
func NewCompletionRequest(cfg *config.Configuration, messages []ai.ChatCompletionMessage, tools []ai.Tool) *CompletionRequest {
	return &CompletionRequest{
		Model:       cfg.Model.Deployment,
		MaxTokens:   cfg.Model.MaxTokens,
		Temperature: cfg.Model.Temperature,
		Timeout:     cfg.API.Timeout,
		Messages:    messages,
		Tools:       tools,
	}
}

// LLM is the synchronous completion interface the router and the
// specialists consume.
type LLM interface {
	Complete(ctx context.Context, req *CompletionRequest) (ai.ChatCompletionMessage, error)
}

var _ LLM = (*OpenAIClient)(nil)

// OpenAIClient talks to an Azure OpenAI deployment using bearer tokens
// from a TokenSource rather than a static api key.
type OpenAIClient struct {
	client *ai.Client
}

// NewAzureClient constructs the client once at startup; callers inject
// it everywhere it is needed.
func NewAzureClient(endpoint, apiVersion string, source auth.TokenSource) *OpenAIClient {
	cfg := ai.DefaultAzureConfig("", endpoint)
	cfg.APIType = ai.APITypeAzureAD
	if apiVersion != "" {
		cfg.APIVersion = apiVersion
	}
	cfg.HTTPClient = &http.Client{
		Transport: &bearerTransport{source: source},
	}
	return &OpenAIClient{client: ai.NewClientWithConfig(cfg)}
}

// NewClient constructs a plain OpenAI-compatible client, used for local
// endpoints in development.
func NewClient(apiKey, baseURL string) *OpenAIClient {
	cfg := ai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{client: ai.NewClientWithConfig(cfg)}
}

func (o *OpenAIClient) Complete(ctx context.Context, req *CompletionRequest) (ai.ChatCompletionMessage, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	resp, err := o.client.CreateChatCompletion(ctx, ai.ChatCompletionRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages:    req.Messages,
		Tools:       req.Tools,
	})
	if err != nil {
		return ai.ChatCompletionMessage{}, err
	}
	if len(resp.Choices) == 0 {
		return ai.ChatCompletionMessage{}, errors.New("completion returned no choices")
	}
	return resp.Choices[0].Message, nil
}

// bearerTransport injects a fresh Authorization header on every request,
// overriding the static header the client library would set.
type bearerTransport struct {
	source auth.TokenSource
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.source.Token(req.Context())
	if err != nil {
		return nil, err
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}
