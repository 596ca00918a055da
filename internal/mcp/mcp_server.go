// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/stratus-wx/stratus/internal/contract"
)

// NewMCPServer initializes and configures the Stratus MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Stratus Forecast Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
	}

	// --- 1. Tool: get_ensemble_forecast ---
	s.AddTool(mcp.NewTool("get_ensemble_forecast",
		mcp.WithDescription("Build a weighted multi-model ensemble forecast for a location, with per-parameter uncertainty and an agreement score."),
		mcp.WithNumber("latitude", mcp.Description("Latitude in decimal degrees."), mcp.Required()),
		mcp.WithNumber("longitude", mcp.Description("Longitude in decimal degrees."), mcp.Required()),
		mcp.WithString("ahead", mcp.Description("Forecast horizon as a duration (e.g. '72h'). Defaults to the configured horizon.")),
		mcp.WithString("sources", mcp.Description("Comma-separated source list (aifs, graphcast, meteosat). Defaults to all.")),
		mcp.WithString("as_of", mcp.Description("Anchor instant in RFC3339 (defaults to now).")),
	), h.handleGetEnsembleForecast)

	// --- 2. Tool: compare_models ---
	s.AddTool(mcp.NewTool("compare_models",
		mcp.WithDescription("Compare forecast models side by side for a location and score how much they agree."),
		mcp.WithNumber("latitude", mcp.Description("Latitude in decimal degrees."), mcp.Required()),
		mcp.WithNumber("longitude", mcp.Description("Longitude in decimal degrees."), mcp.Required()),
		mcp.WithString("ahead", mcp.Description("Forecast horizon as a duration (e.g. '48h').")),
		mcp.WithString("sources", mcp.Description("Comma-separated source list to compare.")),
	), h.handleCompareModels)

	// --- 3. Tool: get_weather_timeline ---
	s.AddTool(mcp.NewTool("get_weather_timeline",
		mcp.WithDescription("Stitch recent satellite observations and a model forecast into one continuous timeline around now."),
		mcp.WithNumber("latitude", mcp.Description("Latitude in decimal degrees."), mcp.Required()),
		mcp.WithNumber("longitude", mcp.Description("Longitude in decimal degrees."), mcp.Required()),
		mcp.WithString("back", mcp.Description("History window as a duration (e.g. '24h').")),
		mcp.WithString("ahead", mcp.Description("Forecast window as a duration (e.g. '72h').")),
		mcp.WithString("forecast_source", mcp.Description("Forecast model for the future segment (aifs or graphcast)."), mcp.Enum("aifs", "graphcast")),
	), h.handleGetWeatherTimeline)

	// --- 4. Tool: list_providers ---
	s.AddTool(mcp.NewTool("list_providers",
		mcp.WithDescription("List the configured weather data sources with their kind and ensemble weight."),
	), h.handleListProviders)

	return s
}

// StartMCPServer starts the Stratus MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
