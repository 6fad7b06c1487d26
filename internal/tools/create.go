package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskdeck/taskdeck/internal/engine"
	"github.com/taskdeck/taskdeck/internal/work"
)

// CreateTool handles the task_create MCP tool.
type CreateTool struct {
	engine *engine.Engine
}

// NewCreateTool creates a CreateTool.
func NewCreateTool(e *engine.Engine) *CreateTool {
	return &CreateTool{engine: e}
}

// Definition returns the MCP tool definition for task_create.
func (t *CreateTool) Definition() mcp.Tool {
	return mcp.NewTool("task_create",
		mcp.WithDescription(
			"Create a new work item. Items start in the 'queue' role. "+
				"Nest items under a parent (project or feature) via parent_id.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short title (max 500 characters)"),
		),
		mcp.WithString("summary",
			mcp.Description("Free-text summary (max 2000 characters)"),
		),
		mcp.WithString("parent_id",
			mcp.Description("Parent item id for nesting"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority: high, medium, or low (default: medium)"),
		),
		mcp.WithNumber("complexity",
			mcp.Description("Complexity rating from 1 (trivial) to 10 (hardest)"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags (lowercase letters, digits, hyphens)"),
		),
	)
}

// Handle processes the task_create tool call.
func (t *CreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	params := engine.CreateParams{
		Title:    title,
		Summary:  req.GetString("summary", ""),
		ParentID: req.GetString("parent_id", ""),
		Priority: work.Priority(req.GetString("priority", "")),
		Tags:     splitTags(req.GetString("tags", "")),
	}
	if c := intArg(req, "complexity", 0); c != 0 {
		params.Complexity = &c
	}

	item, err := t.engine.CreateItem(params)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(item), nil
}
