package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) currentCycle(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	cycle, err := h.ds.CurrentCycle(ctx)
	if err != nil {
		return nil, err
	}

	maxes, err := h.ds.GetTrainingMaxes(ctx, cycle.ID)
	if err != nil {
		h.log.Warn("current_cycle: training max query failed", "error", err)
	}

	data, err := json.Marshal(map[string]any{
		"cycle":          cycle,
		"training_maxes": maxes,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) templates(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	summaries, err := h.ds.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(summaries)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
