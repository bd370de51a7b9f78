package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("IronCycle", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("IronCycle workout programming server. Estimate rep maxes, compute plate loadouts and strength scores, inspect the current training cycle, and log autoregulated sets."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolCalcRepMax, Handler: h.calcRepMax},
		server.ServerTool{Tool: toolCalcPlates, Handler: h.calcPlates},
		server.ServerTool{Tool: toolCalcStrengthScores, Handler: h.calcStrengthScores},
		server.ServerTool{Tool: toolGetDayPlan, Handler: h.getDayPlan},
		server.ServerTool{Tool: toolGetTrainingMaxes, Handler: h.getTrainingMaxes},
		server.ServerTool{Tool: toolGetLiftLogs, Handler: h.getLiftLogs},
		server.ServerTool{Tool: toolLogStructuredSet, Handler: h.logStructuredSet},
		server.ServerTool{Tool: toolQuerySetHistory, Handler: h.querySetHistory},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCurrentCycle, Handler: h.currentCycle},
		server.ServerResource{Resource: resTemplates, Handler: h.templates},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resCurrentCycle = mcp.NewResource(
	"ironcycle://current_cycle",
	"Current Cycle",
	mcp.WithResourceDescription("The most recently started training cycle with its training maxes"),
	mcp.WithMIMEType("application/json"),
)

var resTemplates = mcp.NewResource(
	"ironcycle://templates",
	"Templates",
	mcp.WithResourceDescription("All stored workout templates"),
	mcp.WithMIMEType("application/json"),
)
