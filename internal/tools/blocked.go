package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskdeck/taskdeck/internal/engine"
	"github.com/taskdeck/taskdeck/internal/work"
)

// BlockedTool handles the task_blocked MCP tool.
type BlockedTool struct {
	engine *engine.Engine
}

// NewBlockedTool creates a BlockedTool.
func NewBlockedTool(e *engine.Engine) *BlockedTool {
	return &BlockedTool{engine: e}
}

// Definition returns the MCP tool definition for task_blocked.
func (t *BlockedTool) Definition() mcp.Tool {
	return mcp.NewTool("task_blocked",
		mcp.WithDescription(
			"Check whether a work item is gated by unfinished prerequisites. "+
				"By default a prerequisite must be done; pass a lower threshold "+
				"(e.g. review) to soft-gate on partial progress.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Work item id"),
		),
		mcp.WithString("threshold",
			mcp.Description("Progression stage prerequisites must reach: queue, work, review, or done (default: done)"),
		),
	)
}

// Handle processes the task_blocked tool call.
func (t *BlockedTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	threshold := work.Role(req.GetString("threshold", ""))
	blocked, err := t.engine.IsBlocked(id, threshold)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(map[string]any{
		"id":      id,
		"blocked": blocked,
	}), nil
}
