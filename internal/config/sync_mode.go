package config

import (
	"fmt"
	"strings"
)

// SyncMode selects how RunAsync schedules its work.
type SyncMode string

const (
	// SyncAuto runs synchronously when the process is headless.
	SyncAuto SyncMode = "auto"
	// SyncOn always runs on the calling goroutine.
	SyncOn SyncMode = "true"
	// SyncOff always runs on a new goroutine.
	SyncOff SyncMode = "false"
)

// ParseSyncMode maps user-facing spellings to a SyncMode.
//
// Accepted aliases:
//   - "" -> "auto"
//   - "yes", "on", "sync" -> "true"
//   - "no", "off", "async" -> "false"
func ParseSyncMode(s string) (SyncMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return SyncAuto, nil
	case "true", "yes", "on", "sync":
		return SyncOn, nil
	case "false", "no", "off", "async":
		return SyncOff, nil
	default:
		return "", fmt.Errorf("invalid synchronous mode %q", s)
	}
}

// Resolve reports whether work should run synchronously.
func (m SyncMode) Resolve(headless bool) bool {
	switch m {
	case SyncOn:
		return true
	case SyncOff:
		return false
	default:
		return headless
	}
}
