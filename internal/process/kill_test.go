package process

// Real termination is covered by the export integration tests, which close
// pooled browsers. Unit tests only check inputs that must be harmless.

import "testing"

func TestKillProcessGroup_IgnoresUnsafePIDs(t *testing.T) {
	t.Parallel()

	// 0 and negative values would address our own or arbitrary groups.
	for _, pid := range []int{0, -1, -12345} {
		KillProcessGroup(pid)
	}
}

func TestKillProcessGroup_UnknownPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}
