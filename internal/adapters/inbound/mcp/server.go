package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/battleroid/dwms/internal/domain"
)

// NewDWMSServer creates an MCP server exposing the snapshot checks for the
// config at configPath. sources connects to the clusters it names.
func NewDWMSServer(configPath, version string, sources domain.SourceFactory) *server.MCPServer {
	s := server.NewMCPServer(
		"dwms",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, configPath, sources)
	registerResources(s, configPath)

	return s
}
