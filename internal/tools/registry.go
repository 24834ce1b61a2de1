// Package tools holds the orchestrator's fixed tool registry: one
// delegation tool per specialist.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	ai "github.com/sashabaranov/go-openai"
)

// Tool is one dispatchable capability of the orchestrator.
type Tool interface {
	Name() string
	Definition() ai.Tool
	Execute(ctx context.Context, call ai.ToolCall) (string, error)
}

// Registry maps tool names to implementations, preserving registration
// order for the definitions handed to the model.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	name := t.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Definitions returns the tool definitions in registration order.
func (r *Registry) Definitions() []ai.Tool {
	defs := make([]ai.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// ParseQuestion extracts the single free-text question argument from a
// tool call.
func ParseQuestion(call ai.ToolCall) (string, error) {
	var args struct {
		Question string `json:"question"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return "", fmt.Errorf("parse arguments for %s: %w", call.Function.Name, err)
	}
	if args.Question == "" {
		return "", fmt.Errorf("tool %s called without a question", call.Function.Name)
	}
	return args.Question, nil
}
