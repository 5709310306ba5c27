package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("lifts", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Lifts workout tracker. List lifts, read the computed weight and barbell plates for every prescribed set, and update working weights or notes. Weights are in pounds on a 45 lb bar."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListLifts, Handler: h.listLifts},
		server.ServerTool{Tool: toolGetLiftSets, Handler: h.getLiftSets},
		server.ServerTool{Tool: toolCalculatePlates, Handler: h.calculatePlates},
		server.ServerTool{Tool: toolCalculateSets, Handler: h.calculateSets},
		server.ServerTool{Tool: toolSetWorkWeight, Handler: h.setWorkWeight},
		server.ServerTool{Tool: toolSetNotes, Handler: h.setNotes},
	)

	// Resources
	s.AddResources(
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

var resTemplates = mcp.NewResource(
	"lifts://templates",
	"Workout Templates",
	mcp.WithResourceDescription("Built-in workout templates: sets, reps, and percentage of working weight for each row"),
	mcp.WithMIMEType("application/json"),
)
