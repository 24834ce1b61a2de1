package tools

import (
	"context"

	ai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"contoso/concierge/internal/subagent"
)

// Tool names form the orchestrator's fixed registry.
const (
	OpsToolName  = "query_ops_agent"
	MenuToolName = "query_menu_agent"
)

const (
	opsDescription = "Route operational questions about store performance, KPIs, sales data, " +
		"labor, food safety, drive-thru, inventory, staffing, and regional " +
		"comparisons to the Ops Agent."
	menuDescription = "Route creative and marketing questions about menu innovation, " +
		"promotional campaigns, LTOs, brand strategies, social media ideas, " +
		"and visual creative direction to the Menu & Marketing Agent."
)

// AgentQuerier is the slice of the sub-agent client a QueryTool needs.
type AgentQuerier interface {
	Query(ctx context.Context, question string, ref subagent.Reference) string
}

// QueryTool binds one Sub-Agent Reference to the shared client. The
// question argument is forwarded unmodified.
type QueryTool struct {
	name        string
	description string
	ref         subagent.Reference
	client      AgentQuerier
}

var _ Tool = (*QueryTool)(nil)

func NewOpsQueryTool(client AgentQuerier, ref subagent.Reference) *QueryTool {
	return &QueryTool{name: OpsToolName, description: opsDescription, ref: ref, client: client}
}

func NewMenuQueryTool(client AgentQuerier, ref subagent.Reference) *QueryTool {
	return &QueryTool{name: MenuToolName, description: menuDescription, ref: ref, client: client}
}

func (t *QueryTool) Name() string { return t.name }

// Reference reports which specialist this tool delegates to.
func (t *QueryTool) Reference() subagent.Reference { return t.ref }

func (t *QueryTool) Definition() ai.Tool {
	return ai.Tool{
		Type: ai.ToolTypeFunction,
		Function: &ai.FunctionDefinition{
			Name:        t.name,
			Description: t.description,
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"question": {
						Type:        jsonschema.String,
						Description: "The user's question, passed through exactly as asked",
					},
				},
				Required: []string{"question"},
			},
		},
	}
}

func (t *QueryTool) Execute(ctx context.Context, call ai.ToolCall) (string, error) {
	question, err := ParseQuestion(call)
	if err != nil {
		return "", err
	}
	return t.client.Query(ctx, question, t.ref), nil
}
