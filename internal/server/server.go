// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the concrete store, lock
// coordinator, session registry, and engine, and injects them into
// the tool handlers. No business logic lives here — only wiring.
package server

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/engine"
	"github.com/taskdeck/taskdeck/internal/locks"
	"github.com/taskdeck/taskdeck/internal/session"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools
// registered. The returned cleanup function closes the database
// connection and must be called on shutdown (typically via defer).
func New(cfg config.Config) (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			log.Printf("WARNING: store close: %v", err)
		}
	}

	coordinator := locks.NewCoordinator(cfg.LockRetryWindow, cfg.LockRetryPoll)
	sessions := session.NewRegistry(coordinator)
	eng := engine.New(st, coordinator)

	// --- Create the MCP server ---
	//
	// Session teardown is wired through server hooks: when a transport
	// connection goes away, every lock that session still holds is
	// forcibly released so no entity stays locked by a dead caller.

	hooks := &server.Hooks{}
	hooks.AddOnUnregisterSession(func(ctx context.Context, s server.ClientSession) {
		if n := sessions.End(s.SessionID()); n > 0 {
			log.Printf("session %s torn down, released %d locks", s.SessionID(), n)
		}
	})

	srv := server.NewMCPServer(
		"taskdeck",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(hooks),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register work item tools ---

	createTool := tools.NewCreateTool(eng)
	srv.AddTool(createTool.Definition(), createTool.Handle)

	getTool := tools.NewGetTool(eng)
	srv.AddTool(getTool.Definition(), getTool.Handle)

	listTool := tools.NewListTool(eng)
	srv.AddTool(listTool.Definition(), listTool.Handle)

	updateTool := tools.NewUpdateTool(eng)
	srv.AddTool(updateTool.Definition(), updateTool.Handle)

	deleteTool := tools.NewDeleteTool(eng)
	srv.AddTool(deleteTool.Definition(), deleteTool.Handle)

	// --- Register life-cycle and graph tools ---

	transitionTool := tools.NewTransitionTool(eng)
	srv.AddTool(transitionTool.Definition(), transitionTool.Handle)

	historyTool := tools.NewHistoryTool(eng)
	srv.AddTool(historyTool.Definition(), historyTool.Handle)

	dependTool := tools.NewDependTool(eng)
	srv.AddTool(dependTool.Definition(), dependTool.Handle)

	undependTool := tools.NewUndependTool(eng)
	srv.AddTool(undependTool.Definition(), undependTool.Handle)

	blockedTool := tools.NewBlockedTool(eng)
	srv.AddTool(blockedTool.Definition(), blockedTool.Handle)

	nextTool := tools.NewNextTool(eng, sessions)
	srv.AddTool(nextTool.Definition(), nextTool.Handle)

	// --- Register session-scoped project tools ---

	focusTool := tools.NewFocusTool(eng, sessions)
	srv.AddTool(focusTool.Definition(), focusTool.Handle)

	statusTool := tools.NewStatusTool(eng, sessions)
	srv.AddTool(statusTool.Definition(), statusTool.Handle)

	return srv, cleanup, nil
}

func serverInstructions() string {
	return `taskdeck tracks work items (tasks nested under features and projects) for AI agents working in parallel.

Life-cycle: items move queue → work → done via task_transition triggers
(start, complete, block, hold, resume, cancel). Dependencies gate items:
task_depend makes one item wait for another, and gated items drop out of
task_next recommendations until their prerequisites are done.

Concurrency: mutations are serialized per item. If a call fails because the
entity is locked by another session, back off briefly and retry. If a
task_update reports a stale version, re-read the item and retry with the
fresh version.

Typical flow: project_focus to scope your session, task_next to pick work,
task_transition start/complete as you go, task_blocked or task_get to
understand why something is gated.`
}
