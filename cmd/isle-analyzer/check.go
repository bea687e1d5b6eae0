package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"isle-analyzer/internal/check"
	"isle-analyzer/internal/diag"
)

// errFindings makes the process exit with status 1 after the report is printed.
var errFindings = errors.New("check failed")

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check [path]",
		Short:        "Index an ISLE workspace and report diagnostics",
		Long:         `Check discovers the workspace around path (isle.toml or a *.isle walk), parses and resolves it, and prints parse, type and rule diagnostics`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runCheck,
	}
	cmd.Flags().Bool("werror", false, "treat warnings as errors")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	werror, err := cmd.Flags().GetBool("werror")
	if err != nil {
		return fmt.Errorf("failed to get werror flag: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := colorMode(cmd, out); err != nil {
		return err
	}
	log := newLogger(cmd)
	defer func() { _ = log.Sync() }()

	a, err := analyze(cmd, startArg(args), log)
	if err != nil {
		return err
	}

	var diags []diag.Diagnostic
	if a.Project == nil {
		diags = a.Errors
	} else {
		done := a.Timer.Track("check")
		diags = check.Run(a.Project)
		done(fmt.Sprintf("%d diagnostics", len(diags)))
	}
	if err := writeDiagnostics(out, diags, a.Files, a.Workspace.Root); err != nil {
		return err
	}

	errs := countSeverity(diags, diag.SevError)
	warns := countSeverity(diags, diag.SevWarning)
	if timingsEnabled(cmd) {
		fmt.Fprint(cmd.ErrOrStderr(), a.Timer.Summary())
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d files: %d errors, %d warnings\n", len(a.Workspace.Files), errs, warns)
	if errs > 0 || (werror && warns > 0) {
		return errFindings
	}
	return nil
}
