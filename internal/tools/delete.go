package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskdeck/taskdeck/internal/engine"
)

// DeleteTool handles the task_delete MCP tool.
type DeleteTool struct {
	engine *engine.Engine
}

// NewDeleteTool creates a DeleteTool.
func NewDeleteTool(e *engine.Engine) *DeleteTool {
	return &DeleteTool{engine: e}
}

// Definition returns the MCP tool definition for task_delete.
func (t *DeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("task_delete",
		mcp.WithDescription(
			"Delete a work item. Every dependency edge touching it — in "+
				"either direction — is removed with it, which may unblock "+
				"items it was gating.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Work item id"),
		),
	)
}

// Handle processes the task_delete tool call.
func (t *DeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	if err := t.engine.DeleteItem(id, sessionID(ctx)); err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Work item %s deleted", id)), nil
}
