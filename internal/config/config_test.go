package config

import (
	"testing"
	"time"
)

func TestDefaultConfig_EnvOverride(t *testing.T) {
	t.Setenv("TASKDECK_DATA_DIR", "/tmp/deck-test")

	cfg := DefaultConfig()
	if cfg.DataDir != "/tmp/deck-test" {
		t.Errorf("DataDir = %q, want env override", cfg.DataDir)
	}
}

func TestDefaultConfig_HomeFallback(t *testing.T) {
	t.Setenv("TASKDECK_DATA_DIR", "")

	cfg := DefaultConfig()
	if cfg.DataDir == "" {
		t.Error("DataDir should default under the home directory")
	}
	if cfg.LockRetryWindow != 250*time.Millisecond || cfg.LockRetryPoll != 25*time.Millisecond {
		t.Errorf("lock timing = (%v, %v)", cfg.LockRetryWindow, cfg.LockRetryPoll)
	}
}
