package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskdeck/taskdeck/internal/engine"
)

// HistoryTool handles the task_history MCP tool.
type HistoryTool struct {
	engine *engine.Engine
}

// NewHistoryTool creates a HistoryTool.
func NewHistoryTool(e *engine.Engine) *HistoryTool {
	return &HistoryTool{engine: e}
}

// Definition returns the MCP tool definition for task_history.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("task_history",
		mcp.WithDescription(
			"Read a work item's role transition audit trail, oldest first. "+
				"Records which trigger caused each change — including whether a "+
				"finished item was completed or cancelled.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Work item id"),
		),
	)
}

// Handle processes the task_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	trail, err := t.engine.History(id)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(map[string]any{
		"item_id":     id,
		"transitions": trail,
		"count":       len(trail),
	}), nil
}
