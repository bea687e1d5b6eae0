package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build information, overridable via -ldflags.
var (
	// Version is the semantic version of isle-analyzer.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
	dimColor   = color.New(color.Faint)
)

// Colored renders Version with each component in its own color.
// Output follows color.NoColor.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Banner is the one-line `isle-analyzer version` output.
func Banner() string {
	var b strings.Builder
	b.WriteString("isle-analyzer ")
	b.WriteString(Colored())
	if GitCommit != "" {
		b.WriteString(dimColor.Sprint(" (" + GitCommit + ")"))
	}
	if BuildDate != "" {
		b.WriteString(dimColor.Sprint(" built " + BuildDate))
	}
	return b.String()
}
