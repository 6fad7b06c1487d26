package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskdeck/taskdeck/internal/engine"
	"github.com/taskdeck/taskdeck/internal/work"
)

// GetTool handles the task_get MCP tool.
type GetTool struct {
	engine *engine.Engine
}

// NewGetTool creates a GetTool.
func NewGetTool(e *engine.Engine) *GetTool {
	return &GetTool{engine: e}
}

// Definition returns the MCP tool definition for task_get.
func (t *GetTool) Definition() mcp.Tool {
	return mcp.NewTool("task_get",
		mcp.WithDescription(
			"Fetch one work item with its dependency edges and current blocked state.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Work item id"),
		),
	)
}

// itemDetail is the task_get payload: the item plus the graph context
// around it.
type itemDetail struct {
	Item    *work.WorkItem        `json:"item"`
	Blocked bool                  `json:"blocked"`
	GatedBy []work.DependencyEdge `json:"gated_by,omitempty"`
	Gates   []work.DependencyEdge `json:"gates,omitempty"`
}

// Handle processes the task_get tool call.
func (t *GetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	item, err := t.engine.GetItem(id)
	if err != nil {
		return errResult(err), nil
	}
	blocked, err := t.engine.IsBlocked(id, "")
	if err != nil {
		return errResult(err), nil
	}
	incoming, outgoing, err := t.engine.Dependencies(id)
	if err != nil {
		return errResult(err), nil
	}

	return jsonResult(itemDetail{
		Item:    item,
		Blocked: blocked,
		GatedBy: incoming,
		Gates:   outgoing,
	}), nil
}
