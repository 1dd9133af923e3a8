package git

import "testing"

func TestCheckGit_Available(t *testing.T) {
	t.Parallel()
	// git must be available in CI and dev environments
	if err := CheckGit(); err != nil {
		t.Fatalf("CheckGit() = %v, want nil (git should be in PATH)", err)
	}
}
