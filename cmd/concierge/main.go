package main

//   ___    ___    _ __     ___  (_)   ___   _ __    __ _    ___
//  / __|  / _ \  | '_ \   / __| | |  / _ \ | '__|  / _` |  / _ \
// | (__  | (_) | | | | | | (__  | | |  __/ | |    | (_| | |  __/
//  \___|  \___/  |_| |_|  \___| |_|  \___| |_|     \__, |  \___|
//  .  .  .  three  agents,  one  front  door      |___/

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mazznoer/colorgrad"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"contoso/concierge/internal/auth"
	"contoso/concierge/internal/config"
	"contoso/concierge/internal/core"
	"contoso/concierge/internal/hosting"
	"contoso/concierge/internal/llm"
	"contoso/concierge/internal/router"
	"contoso/concierge/internal/specialist"
	"contoso/concierge/internal/subagent"
	"contoso/concierge/internal/tools"
)

const version = "0.3"

func main() {
	fmt.Printf("%s\n", getBanner())

	cmd := &cli.Command{
		Name:    "concierge",
		Usage:   "Contoso Restaurants multi-agent concierge",
		Version: version,
		Flags:   config.GetFlags(),
		Commands: []*cli.Command{
			{
				Name:   "orchestrator",
				Usage:  "host the intent router that delegates to the specialists",
				Action: runOrchestrator,
			},
			{
				Name:   "ops",
				Usage:  "host the operations specialist",
				Action: runSpecialist,
			},
			{
				Name:   "menu",
				Usage:  "host the menu & marketing specialist",
				Action: runSpecialist,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		// Print to stderr first in case logger isn't initialized
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		zap.S().Fatal(err)
	}
}

func getBanner() string {
	banner := `
  ___    ___    _ __     ___  (_)   ___   _ __    __ _    ___
 / __|  / _ \  | '_ \   / __| | |  / _ \ | '__|  / _' |  / _ \
| (__  | (_) | | | | | | (__  | | |  __/ | |    | (_| | |  __/
 \___|  \___/  |_| |_|  \___| |_|  \___| |_|     \__, |  \___|
 .  .  .  three  agents,  one  front  door      |___/  [v` + version + `]
`
	grad, _ := colorgrad.NewGradient().
		HtmlColors("#e8590cff", "#fdfdfdff").
		Build()

	lines := strings.Split(banner, "\n")

	// Find max line length for gradient spread
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}

	colors := grad.Colors(uint(maxLen))
	var coloredBanner strings.Builder

	for _, line := range lines {
		for i, ch := range line {
			r, g, b, _ := colors[i].RGBA255()
			coloredBanner.WriteString(fmt.Sprintf("\x1b[38;2;%d;%d;%dm%c", r, g, b, ch))
		}
		coloredBanner.WriteString("\x1b[0m\n")
	}

	return coloredBanner.String()
}

func setup(c *cli.Command) (*config.Configuration, error) {
	cfg := config.NewConfiguration(c)
	core.InitLogger(cfg.Bot.Verbose)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.LogStartup(core.GetLogger())
	return cfg, nil
}

func runOrchestrator(ctx context.Context, c *cli.Command) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	defer zap.L().Sync() // Flushes buffer, if any

	modelSource, err := auth.NewAzureTokenSource(auth.CognitiveScope)
	if err != nil {
		return err
	}
	agentSource, err := auth.NewAzureTokenSource(auth.FoundryScope)
	if err != nil {
		return err
	}

	client := llm.NewAzureClient(cfg.API.Endpoint, cfg.Model.APIVersion, modelSource)

	agents := subagent.NewClient(subagent.Config{
		Endpoint:   cfg.Agents.ProjectEndpoint,
		APIVersion: cfg.Agents.APIVersion,
		Timeout:    cfg.API.SubagentTimeout,
	}, agentSource)

	registry := tools.NewRegistry()
	registry.Register(tools.NewOpsQueryTool(agents, subagent.Reference{
		Name:    cfg.Agents.OpsName,
		Version: cfg.Agents.OpsVersion,
	}))
	registry.Register(tools.NewMenuQueryTool(agents, subagent.Reference{
		Name:    cfg.Agents.MenuName,
		Version: cfg.Agents.MenuVersion,
	}))

	rtr := router.New(client, registry, cfg)

	server := hosting.NewServer("orchestrator", rtr)
	return server.ListenAndServe(ctx, fmt.Sprintf("%s:%d", cfg.Server.Bind, cfg.Server.Port))
}

func runSpecialist(ctx context.Context, c *cli.Command) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	defer zap.L().Sync() // Flushes buffer, if any

	modelSource, err := auth.NewAzureTokenSource(auth.CognitiveScope)
	if err != nil {
		return err
	}

	client := llm.NewAzureClient(cfg.API.Endpoint, cfg.Model.APIVersion, modelSource)

	var responder hosting.Responder
	name := c.Name
	switch name {
	case "ops":
		responder = specialist.NewOpsResponder(client, cfg)
	case "menu":
		responder = specialist.NewMenuResponder(client, cfg)
	default:
		return fmt.Errorf("unknown specialist: %s", name)
	}

	server := hosting.NewServer(name, responder)
	return server.ListenAndServe(ctx, fmt.Sprintf("%s:%d", cfg.Server.Bind, cfg.Server.Port))
}
