// Package router decides, per turn, whether to answer directly or
// delegate to exactly one specialist, as a small two-state machine.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	ai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"contoso/concierge/internal/config"
	"contoso/concierge/internal/core"
	"contoso/concierge/internal/llm"
	"contoso/concierge/internal/tools"
)

// State of the per-turn machine. DECIDING asks the model for either a
// direct reply or one Tool Call; EXECUTING services that call.
type State int

const (
	StateDeciding State = iota
	StateExecuting
)

const defaultMaxIterations = 8

// apology is the turn's answer whenever a failure reaches the Router.
// The turn still terminates normally; nothing is retried here.
const apology = "Sorry, something went wrong while handling your request. Please try again."

type Router struct {
	llm      llm.LLM
	registry *tools.Registry
	cfg      *config.Configuration
	maxIter  int
	log      *zap.SugaredLogger
}

func New(client llm.LLM, registry *tools.Registry, cfg *config.Configuration) *Router {
	maxIter := cfg.Bot.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}
	return &Router{
		llm:      client,
		registry: registry,
		cfg:      cfg,
		maxIter:  maxIter,
		log:      core.GetLogger().With("component", "router"),
	}
}

// Respond runs one turn over the given history and always produces some
// text. The conversation is owned by this call and strictly additive;
// the returned error is always nil and exists only to satisfy the
// hosting adapter's Responder shape.
func (r *Router) Respond(ctx context.Context, history []ai.ChatCompletionMessage) (string, error) {
	start := time.Now()
	defer core.LogDuration(r.log, "router_turn", start)

	conv := make([]ai.ChatCompletionMessage, 0, len(history)+2)
	conv = append(conv, ai.ChatCompletionMessage{
		Role:    ai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	conv = append(conv, history...)

	question := latestUserMessage(history)

	var (
		state      = StateDeciding
		pending    ai.ToolCall
		lastResult string
		delegated  bool
	)

	for iter := 0; iter < r.maxIter; {
		switch state {
		case StateDeciding:
			iter++
			msg, err := r.llm.Complete(ctx, llm.NewCompletionRequest(r.cfg, conv, r.registry.Definitions()))
			if err != nil {
				r.log.Errorw("Decision completion failed", "error", err)
				return apology, nil
			}
			conv = append(conv, msg)

			if len(msg.ToolCalls) == 0 {
				// Terminal. Pass-through law: a delegated turn
				// answers with the tool result text verbatim.
				if delegated {
					return lastResult, nil
				}
				return msg.Content, nil
			}

			pending = r.selectToolCall(msg.ToolCalls)
			state = StateExecuting

		case StateExecuting:
			result, err := r.dispatch(ctx, pending, question)
			if err != nil {
				r.log.Errorw("Tool dispatch failed", "tool", pending.Function.Name, "error", err)
				return apology, nil
			}
			conv = append(conv, ai.ChatCompletionMessage{
				Role:       ai.ChatMessageRoleTool,
				Content:    result,
				ToolCallID: pending.ID,
			})
			lastResult = result
			delegated = true
			state = StateDeciding
		}
	}

	// Iteration bound hit: stop looping, answer with what we have.
	r.log.Warnw("Iteration bound reached", "max", r.maxIter)
	if delegated {
		return lastResult, nil
	}
	return apology, nil
}

// selectToolCall reduces a decision to exactly one delegation. More
// than one requested call means the model judged the question relevant
// to both specialists; the operational specialist wins that tie.
func (r *Router) selectToolCall(calls []ai.ToolCall) ai.ToolCall {
	if len(calls) > 1 {
		r.log.Infow("Ambiguous decision, preferring ops", "requested", len(calls))
		for _, call := range calls {
			if call.Function.Name == tools.OpsToolName {
				return call
			}
		}
	}
	return calls[0]
}

func (r *Router) dispatch(ctx context.Context, call ai.ToolCall, question string) (string, error) {
	tool, ok := r.registry.Get(call.Function.Name)
	if !ok {
		return "", fmt.Errorf("tool not found in registry: %s", call.Function.Name)
	}

	call = forceVerbatim(call, question, r.log)

	var args map[string]any
	_ = json.Unmarshal([]byte(call.Function.Arguments), &args)
	toolLog := core.WithTool(r.log, call.Function.Name, args)

	start := time.Now()
	toolLog.Info("Executing tool")
	result, err := tool.Execute(ctx, call)
	if err != nil {
		toolLog.Errorw("Tool execution failed", "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return "", err
	}
	toolLog.Infow("Tool execution completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"result_size", len(result),
	)
	return result, nil
}

// forceVerbatim rewrites the call's question argument to the latest
// user message when the model paraphrased it. The specialist must see
// the question exactly as the user asked it.
func forceVerbatim(call ai.ToolCall, question string, log *zap.SugaredLogger) ai.ToolCall {
	if question == "" {
		return call
	}
	got, err := tools.ParseQuestion(call)
	if err == nil && got == question {
		return call
	}
	if err == nil {
		log.Warnw("Model paraphrased the question; forwarding verbatim",
			"tool", call.Function.Name,
			"model_argument", got,
		)
	}
	args, _ := json.Marshal(map[string]string{"question": question})
	call.Function.Arguments = string(args)
	return call
}

func latestUserMessage(history []ai.ChatCompletionMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == ai.ChatMessageRoleUser {
			return history[i].Content
		}
	}
	return ""
}
