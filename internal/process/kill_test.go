package process

// Notes:
// - Only pids that cannot hit a real process are used here; the group kill
//   itself is covered by kill_unix_test.go on Unix.

import "testing"

// ---------------------------------------------------------------------------
// TestKillProcessGroup - Harmless Inputs
// ---------------------------------------------------------------------------

func TestKillProcessGroup_IgnoresNonPositive(t *testing.T) {
	t.Parallel()

	// Would signal the test binary's own group without the guard.
	KillProcessGroup(0)
	KillProcessGroup(-1)
}

func TestKillProcessGroup_UnknownPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}
