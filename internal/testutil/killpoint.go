//go:build crashtest

package testutil

import (
	"os"
	"sync"
	"sync/atomic"
)

var (
	target atomic.Pointer[string]

	hitsMu sync.Mutex
	hits   = make(map[string]int64)
)

func init() {
	if name := os.Getenv(KillPointEnvVar); name != "" {
		SetKillPoint(name)
	}
}

// SetKillPoint arms the kill point with the given name.
func SetKillPoint(name string) {
	target.Store(&name)
}

// ClearKillPoint disarms kill points.
func ClearKillPoint() {
	target.Store(nil)
}

// KillPointTarget returns the armed kill point, or "" when none is.
func KillPointTarget() string {
	if p := target.Load(); p != nil {
		return *p
	}
	return ""
}

// KillPointHits returns how often name was reached while a kill point was armed.
func KillPointHits(name string) int64 {
	hitsMu.Lock()
	defer hitsMu.Unlock()
	return hits[name]
}

// ResetKillPointHits clears all hit counts.
func ResetKillPointHits() {
	hitsMu.Lock()
	defer hitsMu.Unlock()
	clear(hits)
}

// MaybeKill exits with KillExitCode if name is the armed kill point.
func MaybeKill(name string) {
	p := target.Load()
	if p == nil {
		return
	}

	hitsMu.Lock()
	hits[name]++
	hitsMu.Unlock()

	if *p == name {
		os.Exit(KillExitCode)
	}
}
