package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskdeck/taskdeck/internal/engine"
	"github.com/taskdeck/taskdeck/internal/work"
)

// TransitionTool handles the task_transition MCP tool.
type TransitionTool struct {
	engine *engine.Engine
}

// NewTransitionTool creates a TransitionTool.
func NewTransitionTool(e *engine.Engine) *TransitionTool {
	return &TransitionTool{engine: e}
}

// Definition returns the MCP tool definition for task_transition.
func (t *TransitionTool) Definition() mcp.Tool {
	return mcp.NewTool("task_transition",
		mcp.WithDescription(
			"Fire a life-cycle trigger on a work item. "+
				"start: queue→work. complete: work/review→done. "+
				"block: pauses any in-flight item, remembering where it was. "+
				"hold: work→queue (de-prioritize without blocking). "+
				"resume: blocked→the role it was blocked from. "+
				"cancel: any non-done item→done. "+
				"Each accepted transition is recorded in the item's audit trail.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Work item id"),
		),
		mcp.WithString("trigger",
			mcp.Required(),
			mcp.Description("One of: start, complete, block, hold, resume, cancel"),
		),
		mcp.WithString("summary",
			mcp.Description("Optional note recorded with the transition"),
		),
	)
}

// Handle processes the task_transition tool call.
func (t *TransitionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	trigger := req.GetString("trigger", "")
	if trigger == "" {
		return mcp.NewToolResultError("'trigger' is required"), nil
	}

	item, err := t.engine.Transition(id, work.Trigger(trigger), sessionID(ctx), req.GetString("summary", ""))
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(item), nil
}
