package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskdeck/taskdeck/internal/engine"
	"github.com/taskdeck/taskdeck/internal/session"
)

// ─── FocusTool ──────────────────────────────────────────────────────────────

// FocusTool handles the project_focus MCP tool.
type FocusTool struct {
	engine   *engine.Engine
	sessions *session.Registry
}

// NewFocusTool creates a FocusTool.
func NewFocusTool(e *engine.Engine, sessions *session.Registry) *FocusTool {
	return &FocusTool{engine: e, sessions: sessions}
}

// Definition returns the MCP tool definition for project_focus.
func (t *FocusTool) Definition() mcp.Tool {
	return mcp.NewTool("project_focus",
		mcp.WithDescription(
			"Set this session's active project. Subsequent task_next and "+
				"project_status calls default to its scope. Pass an empty id "+
				"to clear the focus. The focus is per-session — other "+
				"connected agents keep their own.",
		),
		mcp.WithString("id",
			mcp.Description("Project (parent item) id, or empty to clear"),
		),
	)
}

// Handle processes the project_focus tool call.
func (t *FocusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id != "" {
		if _, err := t.engine.GetItem(id); err != nil {
			return errResult(err), nil
		}
	}

	t.sessions.SetActiveProject(sessionID(ctx), id)
	if id == "" {
		return mcp.NewToolResultText("Project focus cleared"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session focused on project %s", id)), nil
}

// ─── StatusTool ─────────────────────────────────────────────────────────────

// StatusTool handles the project_status MCP tool.
type StatusTool struct {
	engine   *engine.Engine
	sessions *session.Registry
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(e *engine.Engine, sessions *session.Registry) *StatusTool {
	return &StatusTool{engine: e, sessions: sessions}
}

// Definition returns the MCP tool definition for project_status.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("project_status",
		mcp.WithDescription(
			"Summarize the backlog: item counts per role, scoped to the "+
				"session's focused project (or the whole backlog if none).",
		),
		mcp.WithString("parent_id",
			mcp.Description("Scope override; defaults to the session focus"),
		),
	)
}

// Handle processes the project_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope := req.GetString("parent_id", "")
	if scope == "" {
		scope = t.sessions.ActiveProject(sessionID(ctx))
	}

	counts, err := t.engine.CountByRole(scope)
	if err != nil {
		return errResult(err), nil
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return jsonResult(map[string]any{
		"scope":    scope,
		"counts":   counts,
		"total":    total,
		"sessions": t.sessions.Len(),
	}), nil
}
