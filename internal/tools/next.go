package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskdeck/taskdeck/internal/engine"
	"github.com/taskdeck/taskdeck/internal/session"
)

// NextTool handles the task_next MCP tool.
type NextTool struct {
	engine   *engine.Engine
	sessions *session.Registry
}

// NewNextTool creates a NextTool.
func NewNextTool(e *engine.Engine, sessions *session.Registry) *NextTool {
	return &NextTool{engine: e, sessions: sessions}
}

// Definition returns the MCP tool definition for task_next.
func (t *NextTool) Definition() mcp.Tool {
	return mcp.NewTool("task_next",
		mcp.WithDescription(
			"Recommend what to work on next: queued, unblocked items ranked "+
				"by priority then complexity (quick wins first). Scope defaults "+
				"to the session's focused project, if any.",
		),
		mcp.WithString("parent_id",
			mcp.Description("Restrict to items nested under this parent (overrides the session focus)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum recommendations to return (default: 5)"),
		),
	)
}

// Handle processes the task_next tool call.
func (t *NextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope := req.GetString("parent_id", "")
	if scope == "" {
		scope = t.sessions.ActiveProject(sessionID(ctx))
	}

	rec, err := t.engine.Recommend(scope, intArg(req, "limit", 5))
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(rec), nil
}
