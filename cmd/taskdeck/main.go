// Taskdeck: Work Tracking MCP Server
//
// An MCP server that coordinates AI agents working a shared backlog:
// work items with a queue → work → done life-cycle, dependency gating,
// per-entity locking, and ranked "what next" recommendations.
//
// Usage:
//
//	taskdeck serve     # Start MCP server (stdio transport)
//	taskdeck version   # Print the version
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/taskdeck/taskdeck/internal/config"
	tdserver "github.com/taskdeck/taskdeck/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("taskdeck v%s\n", tdserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	// Log to stderr so nothing interferes with MCP's stdio transport
	// on stdout.
	log.SetOutput(os.Stderr)

	s, cleanup, err := tdserver.New(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	_ = ctx // stdio server manages its own lifecycle

	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Taskdeck v%s — Work Tracking MCP Server

Usage:
  taskdeck serve     Start the MCP server (stdio transport)
  taskdeck version   Print the version

Configuration:
  TASKDECK_DATA_DIR  Where the SQLite database lives (default: ~/.taskdeck)

  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "taskdeck": {
        "command": "taskdeck",
        "args": ["serve"]
      }
    }
  }
`, tdserver.Version)
}
