package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/index"
	"isle-analyzer/internal/logging"
	"isle-analyzer/internal/observ"
	"isle-analyzer/internal/project"
	"isle-analyzer/internal/source"
)

// colorMode reads --color and configures fatih/color for out.
func colorMode(cmd *cobra.Command, out io.Writer) error {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		f, ok := out.(*os.File)
		color.NoColor = !ok || !isTerminal(f)
	default:
		return fmt.Errorf("unsupported color mode %q (must be auto, on or off)", colorFlag)
	}
	return nil
}

func newLogger(cmd *cobra.Command) *zap.Logger {
	level, _ := cmd.Root().PersistentFlags().GetString("log-level")
	return logging.New(level, cmd.ErrOrStderr())
}

func timingsEnabled(cmd *cobra.Command) bool {
	on, _ := cmd.Root().PersistentFlags().GetBool("timings")
	return on
}

// analysis is one indexing run over a workspace. When parsing fails Project
// is nil and Errors holds the lexical and syntax errors; Files still maps
// their positions back to paths.
type analysis struct {
	Workspace *project.Workspace
	Project   *index.Project
	Files     *source.FileSet
	Errors    diag.Errors
	Timer     *observ.Timer
}

// analyze discovers the workspace around start and indexes it. I/O and
// manifest failures are returned as errors.
func analyze(cmd *cobra.Command, start string, log *zap.Logger) (*analysis, error) {
	timer := observ.NewTimer()
	done := timer.Track("discover")
	ws, err := project.Discover(start)
	if err != nil {
		return nil, err
	}
	done(fmt.Sprintf("%d files", len(ws.Files)))

	done = timer.Track("load")
	srcs, err := project.Load(cmd.Context(), ws.Files, 0)
	if err != nil {
		return nil, err
	}
	done("")

	a := &analysis{Workspace: ws, Timer: timer}
	p, err := index.FromSources(srcs, index.WithLogger(log), index.WithTimer(timer))
	if err != nil {
		errs, ok := diag.AsErrors(err)
		if !ok {
			return nil, err
		}
		// позиции ошибок ссылаются на ID в порядке srcs
		a.Files = source.NewFileSet()
		for _, src := range srcs {
			a.Files.Add(src.Path, src.Content, 0)
		}
		a.Errors = errs
		return a, nil
	}
	a.Project = p
	a.Files = p.Files()
	return a, nil
}

func startArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	noteLabel    = color.New(color.FgCyan)
	infoLabel    = color.New(color.FgBlue)
)

// writeDiagnostics prints one line per diagnostic and note, coloring the
// severity word.
func writeDiagnostics(out io.Writer, diags []diag.Diagnostic, fs *source.FileSet, baseDir string) error {
	text := diag.FormatShortDiagnostics(diags, fs, baseDir, true)
	if text == "" {
		return nil
	}
	w := bufio.NewWriter(out)
	for line := range strings.SplitSeq(text, "\n") {
		sev, rest, _ := strings.Cut(line, " ")
		if _, err := fmt.Fprintf(w, "%s %s\n", severityColor(sev).Sprint(sev), rest); err != nil {
			return err
		}
	}
	return w.Flush()
}

func severityColor(label string) *color.Color {
	switch label {
	case "error":
		return errorLabel
	case "warning":
		return warningLabel
	case "note":
		return noteLabel
	}
	return infoLabel
}

func countSeverity(diags []diag.Diagnostic, sev diag.Severity) int {
	n := 0
	for _, d := range diags {
		if d.Severity == sev {
			n++
		}
	}
	return n
}
