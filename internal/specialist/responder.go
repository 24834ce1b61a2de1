// Package specialist hosts the two leaf responders: a single model call
// behind a fixed persona prompt, no state beyond the conversation.
package specialist

import (
	"context"
	"time"

	ai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"contoso/concierge/internal/config"
	"contoso/concierge/internal/core"
	"contoso/concierge/internal/llm"
)

type Responder struct {
	name   string
	prompt string
	llm    llm.LLM
	cfg    *config.Configuration
	log    *zap.SugaredLogger
}

func NewOpsResponder(client llm.LLM, cfg *config.Configuration) *Responder {
	return newResponder("ops", opsPrompt, client, cfg)
}

func NewMenuResponder(client llm.LLM, cfg *config.Configuration) *Responder {
	return newResponder("menu", menuPrompt, client, cfg)
}

func newResponder(name, prompt string, client llm.LLM, cfg *config.Configuration) *Responder {
	return &Responder{
		name:   name,
		prompt: prompt,
		llm:    client,
		cfg:    cfg,
		log:    core.GetLogger().With("specialist", name),
	}
}

// Respond answers the conversation with the persona prompt prepended.
// Errors propagate; the hosting adapter owns turning them into text.
func (r *Responder) Respond(ctx context.Context, history []ai.ChatCompletionMessage) (string, error) {
	start := time.Now()
	defer core.LogDuration(r.log, "specialist_response", start)

	messages := make([]ai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, ai.ChatCompletionMessage{
		Role:    ai.ChatMessageRoleSystem,
		Content: r.prompt,
	})
	messages = append(messages, history...)

	r.log.Infof("Invoking model with %d messages", len(messages))
	msg, err := r.llm.Complete(ctx, llm.NewCompletionRequest(r.cfg, messages, nil))
	if err != nil {
		return "", err
	}

	// Phase telemetry only; the response text is the contract.
	r.log.Debugw("Response received", "chars", len(msg.Content))

	return msg.Content, nil
}
