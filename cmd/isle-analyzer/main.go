package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"isle-analyzer/internal/version"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "isle-analyzer",
		Short: "ISLE language server and analysis tools",
		Long:  `isle-analyzer indexes ISLE instruction-selection rules and serves them to editors over LSP`,
		// ошибки печатает main, а не cobra
		SilenceErrors: true,
	}
	root.Version = version.Version

	root.AddCommand(newLSPCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newIndexCmd())
	root.AddCommand(newSymbolsCmd())
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().String("log-level", "error", "log level for stderr (debug|info|warn|error)")
	root.PersistentFlags().Bool("timings", false, "show index phase timings")
	return root
}

// main executes the root command; any error exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("error:", err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
