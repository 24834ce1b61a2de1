// Package subagent invokes deployed specialist agents through the
// project's Responses endpoint and maps every failure to user-safe text.
package subagent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"contoso/concierge/internal/auth"
	"contoso/concierge/internal/core"
)

const (
	defaultAPIVersion = "2025-11-15-preview"
	defaultTimeout    = 2 * time.Minute

	// rawExcerptMax bounds the payload excerpt embedded in the
	// unparsable-response diagnostic.
	rawExcerptMax = 300
)

// Reference identifies one deployed specialist by name and version.
// Version is a non-empty string, numeric by convention.
type Reference struct {
	Name    string
	Version string
}

type Config struct {
	Endpoint   string
	APIVersion string
	Timeout    time.Duration
}

// Client issues synchronous, single-attempt invocations. Query never
// returns an error: every failure path resolves to text that flows back
// into the conversation like a normal result.
type Client struct {
	endpoint   string
	apiVersion string
	source     auth.TokenSource
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func NewClient(cfg Config, source auth.TokenSource) *Client {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiVersion: apiVersion,
		source:     source,
		httpClient: &http.Client{Timeout: timeout},
		log:        core.GetLogger(),
	}
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type agentReference struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

type invokeRequest struct {
	Input  []inputMessage `json:"input"`
	Agent  agentReference `json:"agent"`
	Stream bool           `json:"stream"`
}

// Query sends the question, unmodified, to the referenced agent and
// returns its response text.
func (c *Client) Query(ctx context.Context, question string, ref Reference) string {
	log := core.WithAgent(c.log, ref.Name, ref.Version)

	if c.endpoint == "" {
		log.Warn("Sub-agent call with no project endpoint configured")
		return fmt.Sprintf("Error: FOUNDRY_PROJECT_ENDPOINT is not configured. Cannot reach %s.", ref.Name)
	}

	url := fmt.Sprintf("%s/openai/responses?api-version=%s", c.endpoint, c.apiVersion)

	token, err := c.source.Token(ctx)
	if err != nil {
		log.Errorw("Token acquisition failed", "error", err)
		return fmt.Sprintf("Sorry, an unexpected error occurred while contacting the %s. Please try again.", ref.Name)
	}

	body, err := json.Marshal(invokeRequest{
		Input:  []inputMessage{{Role: "user", Content: question}},
		Agent:  agentReference{Type: "agent_reference", Name: ref.Name, Version: ref.Version},
		Stream: false,
	})
	if err != nil {
		log.Errorw("Request marshal failed", "error", err)
		return fmt.Sprintf("Sorry, an unexpected error occurred while contacting the %s. Please try again.", ref.Name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Errorw("Request build failed", "error", err)
		return fmt.Sprintf("Sorry, an unexpected error occurred while contacting the %s. Please try again.", ref.Name)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	log.Infof("Calling sub-agent at %s", url)
	log.Infof("Question: %s", truncate(question, 200))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorw("Sub-agent request failed", "error", err)
		return fmt.Sprintf("Sorry, I couldn't connect to the %s. Please try again later.", ref.Name)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Errorw("Sub-agent response read failed", "error", err)
		return fmt.Sprintf("Sorry, I couldn't connect to the %s. Please try again later.", ref.Name)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Errorw("Sub-agent returned error status",
			"status", resp.StatusCode,
			"body", truncate(string(data), 500),
		)
		return fmt.Sprintf("Sorry, I couldn't reach the %s. It returned HTTP %d. Please try again.", ref.Name, resp.StatusCode)
	}

	text, ok := parseEnvelope(data)
	if !ok {
		log.Warnw("Sub-agent returned unexpected format", "body", truncate(string(data), 500))
		return fmt.Sprintf("Received a response from %s but could not parse it. Raw: %s", ref.Name, truncate(string(data), rawExcerptMax))
	}

	log.Infof("Sub-agent responded: %s", truncate(text, 200))
	return text
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
