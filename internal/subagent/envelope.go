package subagent

import (
	"encoding/json"
	"strings"
)

// The Responses endpoint answers in one of three shapes depending on
// which hosting adapter backs the agent: a top-level output_text, an
// output array of message items, or a chat-completion choices array.
// parseEnvelope tries them in that order and reports whether any
// yielded text.

type envelope struct {
	OutputText string       `json:"output_text"`
	Output     []outputItem `json:"output"`
	Choices    []choice     `json:"choices"`
}

type outputItem struct {
	Type    string         `json:"type"`
	Content []contentBlock `json:"content"`
}

// contentBlock is either an object carrying a text field or a raw
// string. Blocks of neither form decode as empty and are skipped.
type contentBlock struct {
	Text string
}

func (b *contentBlock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		b.Text = s
		return nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		b.Text = obj.Text
		return nil
	}
	// Unknown block shape; skip rather than fail the whole envelope.
	b.Text = ""
	return nil
}

type choice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

func parseEnvelope(data []byte) (string, bool) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", false
	}

	// Shape 1: plain output text
	if env.OutputText != "" {
		return env.OutputText, true
	}

	// Shape 2: output array with message items; concatenate text
	// fragments in array order
	for _, item := range env.Output {
		if item.Type != "message" || len(item.Content) == 0 {
			continue
		}
		var texts []string
		for _, block := range item.Content {
			if block.Text != "" {
				texts = append(texts, block.Text)
			}
		}
		if len(texts) > 0 {
			return strings.Join(texts, "\n"), true
		}
	}

	// Shape 3: chat-completion choices
	if len(env.Choices) > 0 && env.Choices[0].Message.Content != "" {
		return env.Choices[0].Message.Content, true
	}

	return "", false
}
