package testing

import (
	"time"

	"contoso/concierge/internal/config"
)

// DefaultTestConfig returns a minimal configuration for testing
func DefaultTestConfig() *config.Configuration {
	return &config.Configuration{
		Server: &config.ServerConfig{
			Bind: "127.0.0.1",
			Port: 8088,
		},
		Bot: &config.BotConfig{
			Verbose:       false,
			MaxIterations: 8,
		},
		Model: &config.ModelConfig{
			Deployment:  "test-deployment",
			APIVersion:  "2025-03-01-preview",
			MaxTokens:   100,
			Temperature: 0.7,
		},
		Agents: &config.AgentsConfig{
			ProjectEndpoint: "https://test.project.local",
			APIVersion:      "2025-11-15-preview",
			OpsName:         "ContosoOpsAgent",
			OpsVersion:      "1",
			MenuName:        "ContosoMenuAgent",
			MenuVersion:     "1",
		},
		API: &config.APIConfig{
			Endpoint:        "https://test.openai.local",
			Timeout:         time.Second * 30,
			SubagentTimeout: time.Second * 30,
		},
	}
}
