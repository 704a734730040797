package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// NewRoot returns the opgen command with all subcommands attached.
func NewRoot() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "opgen",
		Short: "opgen generates Go opcode tables from an opcode-map document.",
		Example: `  opgen generate opcodes.html -o opcodes.go --package cpu
  opgen tree opcodes.md
  opgen serve`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	logger := func(cmd *cobra.Command) *slog.Logger {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	}

	root.AddCommand(
		GenerateCommand(logger),
		TreeCommand(),
		ServeCommand(),
	)
	return root
}
