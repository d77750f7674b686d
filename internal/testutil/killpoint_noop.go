//go:build !crashtest

package testutil

// SetKillPoint is a no-op without the crashtest tag.
func SetKillPoint(string) {}

// ClearKillPoint is a no-op without the crashtest tag.
func ClearKillPoint() {}

// KillPointTarget always returns "" without the crashtest tag.
func KillPointTarget() string { return "" }

// KillPointHits always returns 0 without the crashtest tag.
func KillPointHits(string) int64 { return 0 }

// ResetKillPointHits is a no-op without the crashtest tag.
func ResetKillPointHits() {}

// MaybeKill is a no-op without the crashtest tag.
func MaybeKill(string) {}
