package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/battleroid/dwms/internal/adapters/outbound/config"
	"github.com/battleroid/dwms/internal/application"
	"github.com/battleroid/dwms/internal/domain"
	"github.com/battleroid/dwms/internal/domain/patterns"
	"github.com/battleroid/dwms/internal/log"
)

// registerTools registers all dwms MCP tools on the given server.
func registerTools(s *server.MCPServer, configPath string, sources domain.SourceFactory) {
	// 1. dwms_check
	s.AddTool(
		mcplib.NewTool("dwms_check",
			mcplib.WithDescription("Checks every configured cluster for the expected snapshots and returns the run report as JSON. Nothing is sent to notifiers."),
			mcplib.WithString("date",
				mcplib.Description("Date to check (YYYY-MM-DD); defaults to today"),
			),
			mcplib.WithString("cluster",
				mcplib.Description("Only check the cluster with this name or endpoint"),
			),
		),
		handleCheck(configPath, sources),
	)

	// 2. dwms_expand_patterns
	s.AddTool(
		mcplib.NewTool("dwms_expand_patterns",
			mcplib.WithDescription("Returns the snapshot names each repository is expected to hold for a date"),
			mcplib.WithString("date",
				mcplib.Description("Date to expand (YYYY-MM-DD); defaults to today"),
			),
		),
		handleExpandPatterns(configPath),
	)
}

func handleCheck(configPath string, sources domain.SourceFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, date, err := loadWithDate(configPath, request.GetString("date", ""))
		if err != nil {
			return errorResult(err.Error()), nil
		}

		if only := request.GetString("cluster", ""); only != "" {
			cfg, err = filterCluster(cfg, only)
			if err != nil {
				return errorResult(err.Error()), nil
			}
		}

		svc := application.NewCheckService(sources, log.WithComponent("mcp"))
		report, err := svc.Run(ctx, cfg, date)
		if err != nil {
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleExpandPatterns(configPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, date, err := loadWithDate(configPath, request.GetString("date", ""))
		if err != nil {
			return errorResult(err.Error()), nil
		}

		exps, err := application.NewCheckService(nil, log.WithComponent("mcp")).Expectations(cfg, date)
		if err != nil {
			return errorResult(fmt.Sprintf("expanding patterns failed: %v", err)), nil
		}
		return jsonResult(exps)
	}
}

func loadWithDate(configPath, day string) (domain.Config, time.Time, error) {
	date := time.Now()
	if day != "" {
		d, err := patterns.ParseDate(day)
		if err != nil {
			return domain.Config{}, time.Time{}, err
		}
		date = d
	}

	cfg, err := config.New().Load(configPath)
	if err != nil {
		return domain.Config{}, time.Time{}, err
	}
	return cfg, date, nil
}

func filterCluster(cfg domain.Config, id string) (domain.Config, error) {
	for _, c := range cfg.Clusters {
		if c.ID() == id {
			cfg.Clusters = []domain.ClusterConfig{c}
			return cfg, nil
		}
	}
	return cfg, fmt.Errorf("no cluster %q in config", id)
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
