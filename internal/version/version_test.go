package version

import (
	"testing"

	"github.com/fatih/color"
)

func withPlain(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestBannerDefaults(t *testing.T) {
	withPlain(t)
	if got := Banner(); got != "isle-analyzer 0.1.0-dev" {
		t.Fatalf("unexpected banner %q", got)
	}
}

func TestBannerWithBuildInfo(t *testing.T) {
	withPlain(t)
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = "1.2.3"
	GitCommit = "abc123"
	BuildDate = "2024-01-15"
	if got := Banner(); got != "isle-analyzer 1.2.3 (abc123) built 2024-01-15" {
		t.Fatalf("unexpected banner %q", got)
	}
}

func TestColoredKeepsOddVersions(t *testing.T) {
	withPlain(t)
	orig := Version
	t.Cleanup(func() { Version = orig })
	for _, v := range []string{"dev", "1.2", "1.2.3-rc.1+build.5"} {
		Version = v
		if got := Colored(); got != v {
			t.Fatalf("Colored() = %q, want %q", got, v)
		}
	}
}
