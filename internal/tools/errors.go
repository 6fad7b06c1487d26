package tools

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskdeck/taskdeck/internal/locks"
	"github.com/taskdeck/taskdeck/internal/work"
)

// errResult converts a domain error into a tool-result error,
// prefixing the retriable kinds with a hint the calling agent can act
// on. Validation and not-found failures pass through as-is — their
// messages already say what was wrong.
func errResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, locks.ErrEntityLocked):
		return mcp.NewToolResultError(fmt.Sprintf("entity is locked by another session — retry shortly: %v", err))
	case errors.Is(err, work.ErrVersionConflict):
		return mcp.NewToolResultError(fmt.Sprintf("stale version — re-read the item and retry: %v", err))
	default:
		return mcp.NewToolResultError(err.Error())
	}
}
