package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Configuration struct {
	Server *ServerConfig
	Bot    *BotConfig
	Model  *ModelConfig
	Agents *AgentsConfig
	API    *APIConfig
}

type ServerConfig struct {
	Bind string
	Port int
}

type BotConfig struct {
	Verbose       bool
	MaxIterations int
}

type ModelConfig struct {
	Deployment  string
	APIVersion  string
	MaxTokens   int
	Temperature float32
}

// AgentsConfig identifies the two deployed specialists and the project
// endpoint they are invoked through.
type AgentsConfig struct {
	ProjectEndpoint string
	APIVersion      string
	OpsName         string
	OpsVersion      string
	MenuName        string
	MenuVersion     string
}

type APIConfig struct {
	Endpoint        string
	Timeout         time.Duration
	SubagentTimeout time.Duration
}

// YamlSource implements cli.ValueSource for a map loaded from YAML
type YamlSource struct {
	data map[string]any
	key  string
}

func (y *YamlSource) Lookup() (string, bool) {
	if v, ok := y.data[y.key]; ok {
		if slice, ok := v.([]any); ok {
			var strs []string
			for _, item := range slice {
				strs = append(strs, fmt.Sprintf("%v", item))
			}
			return strings.Join(strs, ","), true
		}
		return fmt.Sprintf("%v", v), true
	}
	return "", false
}

func (y *YamlSource) String() string   { return "yaml" }
func (y *YamlSource) GoString() string { return "yaml" }

func GetFlags() []cli.Flag {
	// Pre-parse config path
	configPath := getConfigPath()
	var configData map[string]any
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			_ = yaml.Unmarshal(data, &configData)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config file %s: %v\n", configPath, err)
		}
	}

	// Helper to create sources: EnvVar > YAML > Default
	src := func(key string, env ...string) cli.ValueSourceChain {
		chain := cli.ValueSourceChain{}
		for _, e := range env {
			chain.Chain = append(chain.Chain, cli.EnvVar(e))
		}
		if configData != nil {
			chain.Chain = append(chain.Chain, &YamlSource{data: configData, key: key})
		}
		return chain
	}

	return []cli.Flag{
		// Config file
		&cli.StringFlag{Name: "config", Aliases: []string{"b"}, Usage: "use the named configuration file", Sources: cli.EnvVars("CONCIERGE_CONFIG")},

		// Hosting
		&cli.StringFlag{Name: "bind", Value: "0.0.0.0", Usage: "address the hosting endpoint listens on", Sources: src("bind", "CONCIERGE_BIND")},
		&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8088, Usage: "port the hosting endpoint listens on", Sources: src("port", "CONCIERGE_PORT", "PORT")},

		// Behavior
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"V"}, Usage: "enable verbose logging of requests and configuration", Sources: src("verbose", "CONCIERGE_VERBOSE")},
		&cli.IntFlag{Name: "maxiterations", Value: 8, Usage: "maximum router decide/execute iterations per turn", Sources: src("maxiterations", "CONCIERGE_MAXITERATIONS")},

		// Model access
		&cli.StringFlag{Name: "endpoint", Usage: "Azure OpenAI endpoint for the routing/specialist model", Sources: src("endpoint", "AZURE_OPENAI_ENDPOINT", "AZURE_AI_ENDPOINT")},
		&cli.StringFlag{Name: "deployment", Value: "gpt-4o-mini", Usage: "model deployment name", Sources: src("deployment", "AZURE_AI_MODEL_DEPLOYMENT_NAME", "MODEL_DEPLOYMENT_NAME")},
		&cli.StringFlag{Name: "apiversion", Value: "2025-03-01-preview", Usage: "api-version for model completions", Sources: src("apiversion", "OPENAI_API_VERSION")},
		&cli.IntFlag{Name: "maxtokens", Value: 4096, Usage: "maximum number of tokens to generate", Sources: src("maxtokens", "CONCIERGE_MAXTOKENS")},
		&cli.FloatFlag{Name: "temperature", Value: 0.7, Usage: "temperature for completions", Sources: src("temperature", "CONCIERGE_TEMPERATURE")},
		&cli.DurationFlag{Name: "apitimeout", Aliases: []string{"t"}, Value: time.Minute * 5, Usage: "timeout for each completion request", Sources: src("apitimeout", "CONCIERGE_APITIMEOUT")},

		// Sub-agent routing
		&cli.StringFlag{Name: "foundryendpoint", Usage: "project endpoint sub-agents are invoked through", Sources: src("foundryendpoint", "FOUNDRY_PROJECT_ENDPOINT")},
		&cli.StringFlag{Name: "agentapiversion", Value: "2025-11-15-preview", Usage: "api-version for sub-agent invocation", Sources: src("agentapiversion", "CONCIERGE_AGENT_APIVERSION")},
		&cli.StringFlag{Name: "opsname", Value: "ContosoOpsAgent", Usage: "deployed name of the ops specialist", Sources: src("opsname", "OPS_AGENT_NAME")},
		&cli.StringFlag{Name: "opsversion", Value: "1", Usage: "deployed version of the ops specialist", Sources: src("opsversion", "OPS_AGENT_VERSION")},
		&cli.StringFlag{Name: "menuname", Value: "ContosoMenuAgent", Usage: "deployed name of the menu specialist", Sources: src("menuname", "MENU_AGENT_NAME")},
		&cli.StringFlag{Name: "menuversion", Value: "1", Usage: "deployed version of the menu specialist", Sources: src("menuversion", "MENU_AGENT_VERSION")},
		&cli.DurationFlag{Name: "subagenttimeout", Value: time.Minute * 2, Usage: "timeout for each sub-agent invocation", Sources: src("subagenttimeout", "CONCIERGE_SUBAGENT_TIMEOUT")},
	}
}

func getConfigPath() string {
	// Check env first
	if v := os.Getenv("CONCIERGE_CONFIG"); v != "" {
		return v
	}
	// Check args
	for i, arg := range os.Args {
		if arg == "--config" || arg == "-b" {
			if i+1 < len(os.Args) {
				return os.Args[i+1]
			}
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func NewConfiguration(c *cli.Command) *Configuration {
	if c.IsSet("config") {
		zap.S().Infow("Using config file", "path", c.String("config"))
	}

	return &Configuration{
		Server: &ServerConfig{
			Bind: c.String("bind"),
			Port: c.Int("port"),
		},
		Bot: &BotConfig{
			Verbose:       c.Bool("verbose"),
			MaxIterations: c.Int("maxiterations"),
		},
		Model: &ModelConfig{
			Deployment:  c.String("deployment"),
			APIVersion:  c.String("apiversion"),
			MaxTokens:   c.Int("maxtokens"),
			Temperature: float32(c.Float("temperature")),
		},
		Agents: &AgentsConfig{
			ProjectEndpoint: c.String("foundryendpoint"),
			APIVersion:      c.String("agentapiversion"),
			OpsName:         c.String("opsname"),
			OpsVersion:      c.String("opsversion"),
			MenuName:        c.String("menuname"),
			MenuVersion:     c.String("menuversion"),
		},
		API: &APIConfig{
			Endpoint:        c.String("endpoint"),
			Timeout:         c.Duration("apitimeout"),
			SubagentTimeout: c.Duration("subagenttimeout"),
		},
	}
}

// Validate checks settings the process cannot start without. The project
// endpoint is deliberately not required here: its absence degrades to a
// user-facing message at call time instead of a startup failure.
func (c *Configuration) Validate() error {
	if c.API.Endpoint == "" {
		return errors.New("AZURE_OPENAI_ENDPOINT or AZURE_AI_ENDPOINT must be set")
	}
	if c.Model.Deployment == "" {
		return errors.New("model deployment name must not be empty")
	}
	if c.Agents.OpsVersion == "" || c.Agents.MenuVersion == "" {
		return errors.New("sub-agent versions must not be empty")
	}
	return nil
}

// LogStartup records the effective configuration the way the hosted
// agents log theirs on boot.
func (c *Configuration) LogStartup(log *zap.SugaredLogger) {
	log.Infow("Configuration",
		"bind", c.Server.Bind,
		"port", c.Server.Port,
		"endpoint", c.API.Endpoint,
		"deployment", c.Model.Deployment,
		"apiversion", c.Model.APIVersion,
		"foundryendpoint", c.Agents.ProjectEndpoint,
		"ops", fmt.Sprintf("%s v%s", c.Agents.OpsName, c.Agents.OpsVersion),
		"menu", fmt.Sprintf("%s v%s", c.Agents.MenuName, c.Agents.MenuVersion),
		"maxiterations", c.Bot.MaxIterations,
	)
}
