package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/opgen/internal/config"
	"github.com/dgallion1/opgen/internal/emit"
)

// GenerateCommand writes Go tables for a document.
func GenerateCommand(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	cfg := config.Load()
	var (
		output string
		dump   bool
	)
	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Generate Go opcode tables from an HTML, Markdown, DOCX, JSON, CSV or PDF table.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger(cmd)
			if err := cfg.Validate(); err != nil {
				return err
			}
			path := args[0]

			doc, tables, err := loadTables(path, cfg.EmitOptions())
			if err != nil {
				return err
			}
			log.Debug("walked document", "title", doc.Title, "rows", len(doc.Rows))
			if dump {
				emit.Dump(cmd.ErrOrStderr(), tables)
			}

			// Render fully before touching the output file.
			var buf bytes.Buffer
			w := emit.NewGoWriter(&buf, cfg.BaseSlice, cfg.GoOptions(filepath.Base(path)))
			if err := tables.Emit(w); err != nil {
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = buf.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			log.Info("wrote tables",
				"output", output,
				"base", len(tables.Base),
				"extended", len(tables.Extended),
			)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	f.BoolVar(&dump, "dump", false, "dump the resolved tables to stderr")
	f.StringVar(&cfg.Package, "package", cfg.Package, "package clause of the generated file")
	f.StringVar(&cfg.RecordType, "record-type", cfg.RecordType, "struct type of base records")
	f.StringVar(&cfg.ExtRecordType, "ext-record-type", cfg.ExtRecordType, "struct type of extended records")
	f.BoolVar(&cfg.DeclareTypes, "declare-types", cfg.DeclareTypes, "declare both record types in the generated file")
	f.StringVar(&cfg.LookupFunc, "lookup", cfg.LookupFunc, "generate a switch lookup function over the extended identifiers")
	f.Lookup("lookup").NoOptDefVal = "LookupExtOpcode"
	f.StringVar(&cfg.BaseMap, "base-map", cfg.BaseMap, "name of the base opcode map")
	f.StringVar(&cfg.ExtMap, "ext-map", cfg.ExtMap, "name of the extended opcode map")
	f.StringVar(&cfg.ExtTag, "ext-tag", cfg.ExtTag, "prefix of extended identifiers")
	f.StringVar(&cfg.BaseSlice, "base-slice", cfg.BaseSlice, "name of the base record slice")
	return cmd
}
