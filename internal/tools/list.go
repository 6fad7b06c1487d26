package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskdeck/taskdeck/internal/engine"
	"github.com/taskdeck/taskdeck/internal/work"
)

// ListTool handles the task_list MCP tool.
type ListTool struct {
	engine *engine.Engine
}

// NewListTool creates a ListTool.
func NewListTool(e *engine.Engine) *ListTool {
	return &ListTool{engine: e}
}

// Definition returns the MCP tool definition for task_list.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("task_list",
		mcp.WithDescription(
			"List work items, optionally filtered by parent and/or role.",
		),
		mcp.WithString("parent_id",
			mcp.Description("Only items nested under this parent"),
		),
		mcp.WithString("role",
			mcp.Description("Only items in this role: queue, work, review, blocked, done"),
		),
	)
}

// Handle processes the task_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := t.engine.ListItems(
		req.GetString("parent_id", ""),
		work.Role(req.GetString("role", "")),
	)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(map[string]any{
		"items": items,
		"count": len(items),
	}), nil
}
