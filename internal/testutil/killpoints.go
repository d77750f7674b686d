// Package testutil holds crash-test hooks.
//
// A kill point ends the process at a named place in the patch path so a test
// can inspect what a crash there leaves on disk. Without the crashtest build
// tag every hook compiles to a no-op.
//
//	testutil.MaybeKill(testutil.KPPatchWrite0)
//
// Arm one with SetKillPoint or the MAGICCRC_KILL_POINT environment variable:
//
//	go test -tags crashtest ./cmd/magiccrc
package testutil

// KillPointEnvVar names the environment variable read at startup to arm a
// kill point.
const KillPointEnvVar = "MAGICCRC_KILL_POINT"

// KillExitCode is the status a process exits with at an armed kill point.
const KillExitCode = 86

// Kill point names: "Component.Operation:N", N = 0 before, 1 after.
const (
	KPPatchAppend1 = "Patch.Append:1" // zero bytes appended, region not yet written
	KPPatchWrite0  = "Patch.Write:0"  // before the region write
	KPPatchWrite1  = "Patch.Write:1"  // after the region write
	KPBackupSync1  = "Backup.Sync:1"  // undo backup synced, file not yet patched
)
