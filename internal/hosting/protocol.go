package hosting

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	ai "github.com/sashabaranov/go-openai"
)

// The input field arrives in one of three forms: a plain string, an
// array of role/content messages, or the {"messages": [...]} object the
// local test harness sends.

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func parseInput(raw json.RawMessage) ([]ai.ChatCompletionMessage, error) {
	if len(raw) == 0 {
		return nil, errors.New("missing input field")
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return []ai.ChatCompletionMessage{{Role: ai.ChatMessageRoleUser, Content: text}}, nil
	}

	var list []inputMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return convertMessages(list)
	}

	var wrapped struct {
		Messages []inputMessage `json:"messages"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Messages) > 0 {
		return convertMessages(wrapped.Messages)
	}

	return nil, errors.New("input must be a string, a message array, or an object with messages")
}

func convertMessages(list []inputMessage) ([]ai.ChatCompletionMessage, error) {
	if len(list) == 0 {
		return nil, errors.New("input contains no messages")
	}
	history := make([]ai.ChatCompletionMessage, 0, len(list))
	for _, m := range list {
		role := m.Role
		if role == "" {
			role = ai.ChatMessageRoleUser
		}
		history = append(history, ai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return history, nil
}

// Envelope is the Responses-style reply body. All three shapes the
// sub-agent client parses stay representable; this server always fills
// output_text and the output array.
type Envelope struct {
	ID         string          `json:"id"`
	Object     string          `json:"object"`
	CreatedAt  int64           `json:"created_at"`
	Status     string          `json:"status"`
	OutputText string          `json:"output_text"`
	Output     []OutputMessage `json:"output"`
}

type OutputMessage struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Role    string         `json:"role"`
	Status  string         `json:"status"`
	Content []OutputBlock `json:"content"`
}

type OutputBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func newEnvelope(text string) Envelope {
	return Envelope{
		ID:         "resp_" + uuid.NewString(),
		Object:     "response",
		CreatedAt:  time.Now().Unix(),
		Status:     "completed",
		OutputText: text,
		Output: []OutputMessage{
			{
				ID:     "msg_" + uuid.NewString(),
				Type:   "message",
				Role:   "assistant",
				Status: "completed",
				Content: []OutputBlock{
					{Type: "output_text", Text: text},
				},
			},
		},
	}
}
