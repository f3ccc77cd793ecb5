package cmd

import (
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	origVersion, origGitCommit, origBuildDate := Version, GitCommit, BuildDate
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origGitCommit, origBuildDate
	}()

	Version = "1.2.0"
	GitCommit = "abc123"
	BuildDate = "2026-10-01T12:00:00Z"

	out, err := runRoot(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	for _, expected := range []string{
		"Version:    1.2.0",
		"Git commit: abc123",
		"Build date: 2026-10-01T12:00:00Z",
		"Go version:",
	} {
		if !strings.Contains(out, expected) {
			t.Errorf("expected output to contain %q, got:\n%s", expected, out)
		}
	}
}
