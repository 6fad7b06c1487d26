// Package config holds the server configuration surface. The role and
// trigger vocabularies are fixed at compile time — only storage
// location and lock timing are tunable.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds server configuration.
type Config struct {
	// DataDir is where the SQLite database lives.
	DataDir string

	// LockRetryWindow bounds how long a contended lock acquisition
	// keeps retrying before failing; LockRetryPoll is the spacing
	// between attempts.
	LockRetryWindow time.Duration
	LockRetryPoll   time.Duration
}

// DefaultConfig returns the default configuration. The data directory
// can be overridden with TASKDECK_DATA_DIR.
func DefaultConfig() Config {
	dataDir := os.Getenv("TASKDECK_DATA_DIR")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".taskdeck")
	}
	return Config{
		DataDir:         dataDir,
		LockRetryWindow: 250 * time.Millisecond,
		LockRetryPoll:   25 * time.Millisecond,
	}
}
