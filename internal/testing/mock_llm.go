package testing

import (
	"context"
	"errors"

	ai "github.com/sashabaranov/go-openai"

	"contoso/concierge/internal/llm"
)

// ScriptedLLM returns its scripted messages in order and records every
// request for assertions.
type ScriptedLLM struct {
	Responses []ai.ChatCompletionMessage
	Err       error

	Requests []*llm.CompletionRequest
}

// Verify ScriptedLLM implements llm.LLM
var _ llm.LLM = (*ScriptedLLM)(nil)

func (s *ScriptedLLM) Complete(_ context.Context, req *llm.CompletionRequest) (ai.ChatCompletionMessage, error) {
	s.Requests = append(s.Requests, req)
	if s.Err != nil {
		return ai.ChatCompletionMessage{}, s.Err
	}
	if len(s.Requests) > len(s.Responses) {
		return ai.ChatCompletionMessage{}, errors.New("scripted llm: no response left")
	}
	return s.Responses[len(s.Requests)-1], nil
}

// TextMessage builds an assistant message with plain content.
func TextMessage(content string) ai.ChatCompletionMessage {
	return ai.ChatCompletionMessage{
		Role:    ai.ChatMessageRoleAssistant,
		Content: content,
	}
}

// ToolCallMessage builds an assistant message requesting the named tool
// with the given raw JSON arguments.
func ToolCallMessage(id, name, arguments string) ai.ChatCompletionMessage {
	return ai.ChatCompletionMessage{
		Role: ai.ChatMessageRoleAssistant,
		ToolCalls: []ai.ToolCall{
			{
				ID:   id,
				Type: ai.ToolTypeFunction,
				Function: ai.FunctionCall{
					Name:      name,
					Arguments: arguments,
				},
			},
		},
	}
}
