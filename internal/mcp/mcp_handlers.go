package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/stratus-wx/stratus/core"
	"github.com/stratus-wx/stratus/internal/contract"
	"github.com/stratus-wx/stratus/internal/provider"
	"github.com/stratus-wx/stratus/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

// applyLocation reads the required coordinates into a cloned config.
func applyLocation(cfg *contract.Config, request mcp.CallToolRequest) error {
	lat := request.GetFloat("latitude", cfg.Latitude)
	lon := request.GetFloat("longitude", cfg.Longitude)
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", lon)
	}
	cfg.Latitude = lat
	cfg.Longitude = lon
	return nil
}

// applyDuration overrides one window field from a duration argument.
func applyDuration(request mcp.CallToolRequest, key string, dst *time.Duration) error {
	raw := request.GetString(key, "")
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fmt.Errorf("invalid %s duration '%s'", key, raw)
	}
	*dst = d
	return nil
}

// applySources overrides the selected source set from a csv argument.
func applySources(cfg *contract.Config, request mcp.CallToolRequest) error {
	raw := request.GetString("sources", "")
	if raw == "" {
		return nil
	}
	var sources []string
	for _, s := range strings.Split(raw, ",") {
		id := strings.ToLower(strings.TrimSpace(s))
		if id == "" {
			continue
		}
		if id != schema.SourceAIFS && id != schema.SourceGraphCast && id != schema.SourceMeteosat {
			return fmt.Errorf("unknown source '%s'", id)
		}
		sources = append(sources, id)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources selected")
	}
	cfg.Sources = sources
	return nil
}

func (h *toolHandler) handleGetEnsembleForecast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyLocation(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := applyDuration(request, "ahead", &cfg.LookAhead); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := applySources(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if raw := request.GetString("as_of", ""); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid as_of time '%s'", raw)), nil
		}
		cfg.AsOf = t.UTC()
	}

	result, err := core.GetForecastResult(ctx, cfg, provider.NewRegistry(cfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("forecast failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCompareModels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyLocation(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := applyDuration(request, "ahead", &cfg.LookAhead); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := applySources(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := core.GetCompareResult(ctx, cfg, provider.NewRegistry(cfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetWeatherTimeline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyLocation(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := applyDuration(request, "back", &cfg.LookBack); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := applyDuration(request, "ahead", &cfg.LookAhead); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if src := request.GetString("forecast_source", ""); src != "" {
		cfg.TimelineSource = src
	}
	// The timeline always needs the satellite history plus the model.
	cfg.Sources = []string{schema.SourceMeteosat}
	if cfg.TimelineSource != schema.SourceMeteosat {
		cfg.Sources = append(cfg.Sources, cfg.TimelineSource)
	}

	result, err := core.GetTimelineResult(ctx, cfg, provider.NewRegistry(cfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("timeline failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// providerInfo is the list_providers response element.
type providerInfo struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	Weight float64 `json:"weight"`
}

func (h *toolHandler) handleListProviders(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	reg := provider.NewRegistry(cfg)

	var infos []providerInfo
	for _, c := range reg.Clients() {
		infos = append(infos, providerInfo{
			ID:     c.ID(),
			Kind:   string(c.Kind()),
			Weight: cfg.Ensemble.Weights[c.ID()],
		})
	}

	jsonData, _ := json.MarshalIndent(infos, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
