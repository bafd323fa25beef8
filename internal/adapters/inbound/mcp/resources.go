package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/battleroid/dwms/internal/adapters/outbound/config"
)

const configURI = "dwms://config"

// registerResources registers all dwms MCP resources on the given server.
func registerResources(s *server.MCPServer, configPath string) {
	// 1. dwms://config - effective configuration, credentials omitted
	s.AddResource(
		mcplib.NewResource(
			configURI,
			"Configuration",
			mcplib.WithResourceDescription("Effective configuration with defaults applied; credentials and webhook URLs are omitted"),
			mcplib.WithMIMEType("application/json"),
		),
		handleConfigResource(configPath),
	)
}

func handleConfigResource(configPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := config.New().Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}

		// Secrets carry json:"-" tags.
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling config: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      configURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
