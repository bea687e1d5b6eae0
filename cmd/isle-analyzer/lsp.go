package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"isle-analyzer/internal/lsp"
)

func newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "lsp",
		Short:        "Run the ISLE language server over stdio",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runLSP,
	}
	cmd.Flags().Int("jobs", 0, "parallel file reads on reload (0 = GOMAXPROCS)")
	return cmd
}

func runLSP(cmd *cobra.Command, _ []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	log := newLogger(cmd)
	defer func() { _ = log.Sync() }()

	server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.ServerOptions{
		Logger: log,
		Jobs:   jobs,
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
