package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vbonduro/stokosor/internal/db"
	"github.com/vbonduro/stokosor/internal/snapshot"
)

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:       "export (json|csv)",
		Short:     "Write a full JSON backup or a CSV item list",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(snapshot.KindJSON), string(snapshot.KindCSV)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := snapshot.Kind(args[0])
			if kind != snapshot.KindJSON && kind != snapshot.KindCSV {
				return fmt.Errorf("unknown export format %q", args[0])
			}

			doc, err := a.snapshots.Full(cmd.Context())
			if err != nil {
				return err
			}

			if out == "-" {
				return writeExport(cmd.OutOrStdout(), kind, doc)
			}
			if out == "" {
				out = snapshot.FileName(kind, time.Now())
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := writeExport(f, kind, doc); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file ("-" for stdout)`)
	return cmd
}

func writeExport(w io.Writer, kind snapshot.Kind, doc *snapshot.Document) error {
	if kind == snapshot.KindCSV {
		return snapshot.WriteCSV(w, doc)
	}
	return snapshot.WriteJSON(w, doc)
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the whole inventory with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open backup: %w", err)
			}
			defer func() { _ = f.Close() }()

			doc, err := snapshot.ReadJSON(f)
			if err != nil {
				return err
			}
			counts, err := a.snapshots.Restore(cmd.Context(), doc)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), counts)
		},
	}
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date and print its version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Opening the database already migrated it.
			version, err := db.NewMigrator(a.db, a.logger).Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
}
