package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskdeck/taskdeck/internal/engine"
)

// ─── DependTool ─────────────────────────────────────────────────────────────

// DependTool handles the task_depend MCP tool.
type DependTool struct {
	engine *engine.Engine
}

// NewDependTool creates a DependTool.
func NewDependTool(e *engine.Engine) *DependTool {
	return &DependTool{engine: e}
}

// Definition returns the MCP tool definition for task_depend.
func (t *DependTool) Definition() mcp.Tool {
	return mcp.NewTool("task_depend",
		mcp.WithDescription(
			"Declare that one work item gates another: to_id cannot proceed "+
				"until from_id is done. The gated item drops out of 'what next' "+
				"recommendations until the prerequisite completes.",
		),
		mcp.WithString("from_id",
			mcp.Required(),
			mcp.Description("The prerequisite work item"),
		),
		mcp.WithString("to_id",
			mcp.Required(),
			mcp.Description("The work item that is gated"),
		),
		mcp.WithString("type",
			mcp.Description("Edge type (default: blocks)"),
		),
	)
}

// Handle processes the task_depend tool call.
func (t *DependTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fromID := req.GetString("from_id", "")
	toID := req.GetString("to_id", "")
	if fromID == "" {
		return mcp.NewToolResultError("'from_id' is required"), nil
	}
	if toID == "" {
		return mcp.NewToolResultError("'to_id' is required"), nil
	}

	if err := t.engine.AddDependency(fromID, toID, req.GetString("type", ""), sessionID(ctx)); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Dependency recorded: %s now gates %s", fromID, toID)), nil
}

// ─── UndependTool ───────────────────────────────────────────────────────────

// UndependTool handles the task_undepend MCP tool.
type UndependTool struct {
	engine *engine.Engine
}

// NewUndependTool creates an UndependTool.
func NewUndependTool(e *engine.Engine) *UndependTool {
	return &UndependTool{engine: e}
}

// Definition returns the MCP tool definition for task_undepend.
func (t *UndependTool) Definition() mcp.Tool {
	return mcp.NewTool("task_undepend",
		mcp.WithDescription(
			"Remove a dependency edge between two work items.",
		),
		mcp.WithString("from_id",
			mcp.Required(),
			mcp.Description("The prerequisite work item"),
		),
		mcp.WithString("to_id",
			mcp.Required(),
			mcp.Description("The work item that was gated"),
		),
	)
}

// Handle processes the task_undepend tool call.
func (t *UndependTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fromID := req.GetString("from_id", "")
	toID := req.GetString("to_id", "")
	if fromID == "" {
		return mcp.NewToolResultError("'from_id' is required"), nil
	}
	if toID == "" {
		return mcp.NewToolResultError("'to_id' is required"), nil
	}

	if err := t.engine.RemoveDependency(fromID, toID, sessionID(ctx)); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Dependency removed: %s no longer gates %s", fromID, toID)), nil
}
