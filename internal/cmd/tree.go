package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/opgen/internal/config"
	"github.com/dgallion1/opgen/internal/emit"
)

// TreeCommand displays the opcode tables of a document as a tree.
func TreeCommand() *cobra.Command {
	cfg := config.Load()
	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Display the opcode map of a document grouped by scope and prefix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			doc, tables, err := loadTables(args[0], cfg.EmitOptions())
			if err != nil {
				return err
			}
			w := emit.NewTreeWriter(cmd.OutOrStdout(), doc.Title)
			if err := tables.Emit(w); err != nil {
				return err
			}
			return w.Close()
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.ExtTag, "ext-tag", cfg.ExtTag, "prefix of extended identifiers")
	f.StringVar(&cfg.BaseMap, "base-map", cfg.BaseMap, "name of the base opcode map")
	f.StringVar(&cfg.ExtMap, "ext-map", cfg.ExtMap, "name of the extended opcode map")
	return cmd
}
