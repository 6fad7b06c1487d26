package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskdeck/taskdeck/internal/engine"
	"github.com/taskdeck/taskdeck/internal/work"
)

// UpdateTool handles the task_update MCP tool.
type UpdateTool struct {
	engine *engine.Engine
}

// NewUpdateTool creates an UpdateTool.
func NewUpdateTool(e *engine.Engine) *UpdateTool {
	return &UpdateTool{engine: e}
}

// Definition returns the MCP tool definition for task_update.
func (t *UpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("task_update",
		mcp.WithDescription(
			"Update fields of a work item. Requires the version you last read — "+
				"a stale version is rejected and you must re-read first. "+
				"Role changes go through task_transition, not here.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Work item id"),
		),
		mcp.WithNumber("version",
			mcp.Required(),
			mcp.Description("The item version this update is based on"),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
		),
		mcp.WithString("summary",
			mcp.Description("New summary"),
		),
		mcp.WithString("priority",
			mcp.Description("New priority: high, medium, or low"),
		),
		mcp.WithNumber("complexity",
			mcp.Description("New complexity rating (1-10)"),
		),
		mcp.WithString("status_label",
			mcp.Description("Free-form display label shown alongside the role"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated replacement tag set"),
		),
	)
}

// Handle processes the task_update tool call.
func (t *UpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	version := intArg(req, "version", 0)
	if version == 0 {
		return mcp.NewToolResultError("'version' is required"), nil
	}

	var params engine.UpdateParams
	args := req.GetArguments()
	if _, ok := args["title"]; ok {
		v := req.GetString("title", "")
		params.Title = &v
	}
	if _, ok := args["summary"]; ok {
		v := req.GetString("summary", "")
		params.Summary = &v
	}
	if _, ok := args["priority"]; ok {
		v := work.Priority(req.GetString("priority", ""))
		params.Priority = &v
	}
	if _, ok := args["complexity"]; ok {
		v := intArg(req, "complexity", 0)
		params.Complexity = &v
	}
	if _, ok := args["status_label"]; ok {
		v := req.GetString("status_label", "")
		params.StatusLabel = &v
	}
	if _, ok := args["tags"]; ok {
		params.Tags = splitTags(req.GetString("tags", ""))
	}

	item, err := t.engine.UpdateItem(id, int64(version), params, sessionID(ctx))
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(item), nil
}
