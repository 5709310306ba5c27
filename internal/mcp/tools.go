package mcp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/claude/lifts/internal/models"
	"github.com/claude/lifts/internal/tracker"
	"github.com/claude/lifts/internal/weights"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListLifts = mcp.NewTool("list_lifts",
	mcp.WithDescription("List all tracked lifts with their current working weight, notes, and workout template."),
)

var toolGetLiftSets = mcp.NewTool("get_lift_sets",
	mcp.WithDescription("Get a lift's prescribed sets resolved against its working weight: sets x reps, target weight, and plates per side."),
	mcp.WithString("lift", mcp.Required(), mcp.Description("Lift ID, name, or slug (e.g. 'bench press' or 'benchpress')")),
)

var toolCalculatePlates = mcp.NewTool("calculate_plates",
	mcp.WithDescription("Plates to load on each side of a 45 lb bar to reach a total weight. Returns 'bar' for 45."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Total weight including the bar")),
)

var toolCalculateSets = mcp.NewTool("calculate_sets",
	mcp.WithDescription("Resolve a workout template against an arbitrary working weight without changing any stored lift."),
	mcp.WithNumber("work_weight", mcp.Required(), mcp.Description("Working weight for the heaviest sets")),
	mcp.WithString("template", mcp.Description("Workout template. Defaults to '3x5'."), mcp.Enum(models.ThreeByFive, models.OneByFive)),
	mcp.WithString("policy", mcp.Description("How set weights are derived. Defaults to 'percent'."), mcp.Enum(string(weights.Percent), string(weights.Progression))),
	mcp.WithBoolean("barbell", mcp.Description("Include plate breakdown. Defaults to true.")),
)

var toolSetWorkWeight = mcp.NewTool("set_work_weight",
	mcp.WithDescription("Update a lift's working weight. Returns the recomputed sets."),
	mcp.WithString("lift", mcp.Required(), mcp.Description("Lift ID, name, or slug")),
	mcp.WithNumber("work_weight", mcp.Required(), mcp.Description("New working weight (non-negative)")),
)

var toolSetNotes = mcp.NewTool("set_notes",
	mcp.WithDescription("Replace a lift's notes."),
	mcp.WithString("lift", mcp.Required(), mcp.Description("Lift ID, name, or slug")),
	mcp.WithString("notes", mcp.Required(), mcp.Description("Notes text (may be empty)")),
)

// --- Tool handlers ---

func (h *handlers) listLifts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lifts, err := h.ds.Lifts(ctx)
	if err != nil {
		h.log.Error("mcp list_lifts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(lifts)
}

func (h *handlers) getLiftSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lift, err := req.RequireString("lift")
	if err != nil {
		return mcp.NewToolResultError("lift parameter is required"), nil
	}

	detail, err := h.ds.Detail(ctx, lift)
	if err != nil {
		return h.failure("get_lift_sets", err), nil
	}
	return jsonResult(detail)
}

func (h *handlers) calculatePlates(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	w, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	if math.IsNaN(w) || w > weights.MaxWeight {
		return mcp.NewToolResultError(fmt.Sprintf("weight must not exceed %d", weights.MaxWeight)), nil
	}
	weight := int(max(w, 0))
	return jsonResult(map[string]any{
		"weight": weight,
		"plates": weights.Plates(weight),
	})
}

func (h *handlers) calculateSets(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workWeight, err := req.RequireFloat("work_weight")
	if err != nil {
		return mcp.NewToolResultError("work_weight parameter is required"), nil
	}
	if !weights.ValidWorkWeight(workWeight) {
		return mcp.NewToolResultError(tracker.ErrInvalidWeight.Error()), nil
	}

	policy, err := weights.ParsePolicy(req.GetString("policy", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	template := req.GetString("template", models.ThreeByFive)

	sets, err := tracker.Calculate(workWeight, template, policy, req.GetBool("barbell", true))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"work_weight": workWeight,
		"template":    template,
		"policy":      policy,
		"sets":        sets,
	})
}

func (h *handlers) setWorkWeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lift, err := req.RequireString("lift")
	if err != nil {
		return mcp.NewToolResultError("lift parameter is required"), nil
	}
	workWeight, err := req.RequireFloat("work_weight")
	if err != nil {
		return mcp.NewToolResultError("work_weight parameter is required"), nil
	}

	detail, err := h.ds.SetWorkWeight(ctx, lift, workWeight)
	if err != nil {
		return h.failure("set_work_weight", err), nil
	}
	return jsonResult(detail)
}

func (h *handlers) setNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lift, err := req.RequireString("lift")
	if err != nil {
		return mcp.NewToolResultError("lift parameter is required"), nil
	}
	notes, err := req.RequireString("notes")
	if err != nil {
		return mcp.NewToolResultError("notes parameter is required"), nil
	}

	updated, err := h.ds.SetNotes(ctx, lift, notes)
	if err != nil {
		return h.failure("set_notes", err), nil
	}
	return jsonResult(updated)
}

// failure turns a data source error into a tool error. Caller mistakes are not logged.
func (h *handlers) failure(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, tracker.ErrNotFound) || errors.Is(err, tracker.ErrInvalidWeight) {
		return mcp.NewToolResultError(err.Error())
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("query failed: " + err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
