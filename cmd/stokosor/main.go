package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vbonduro/stokosor/internal/catalog"
	"github.com/vbonduro/stokosor/internal/config"
	"github.com/vbonduro/stokosor/internal/db"
	"github.com/vbonduro/stokosor/internal/logging"
	"github.com/vbonduro/stokosor/internal/repo"
	"github.com/vbonduro/stokosor/internal/snapshot"
	"github.com/vbonduro/stokosor/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes one command line and releases whatever it opened.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// app holds everything a command needs once the database is open.
type app struct {
	cfg     *config.Config
	dbPath  string
	logger  *slog.Logger
	cleanup func()

	db         *sql.DB
	places     *repo.PlaceRepo
	zones      *repo.ZoneRepo
	containers *repo.ContainerRepo
	items      *repo.ItemRepo
	catalog    *catalog.Catalog
	snapshots  *snapshot.Service
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "stokosor",
		Short:        "Household inventory: places, zones, containers and items",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return a.open(cmd.Context())
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database file (overrides STOKOSOR_DB)")

	root.AddCommand(
		newPlaceCmd(a),
		newZoneCmd(a),
		newContainerCmd(a),
		newItemCmd(a),
		newScanCmd(a),
		newSearchCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newMigrateCmd(a),
		newPhotoCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	a.cfg = config.Load()
	if a.dbPath != "" {
		a.cfg.DBPath = a.dbPath
	}

	logger, cleanup, err := logging.New(a.cfg.LogLevel, a.cfg.LogFormat, a.cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger, a.cleanup = logger, cleanup

	database, err := db.Open(ctx, a.cfg.DBPath, logger)
	if err != nil {
		logger.Error("failed to open database", "path", a.cfg.DBPath, "error", err)
		return err
	}
	a.db = database

	a.places = repo.NewPlaceRepo(store.NewPlaceStore(database), logger)
	a.zones = repo.NewZoneRepo(store.NewZoneStore(database), logger)
	a.containers = repo.NewContainerRepo(store.NewContainerStore(database), logger)
	a.items = repo.NewItemRepo(store.NewItemStore(database), logger)
	a.catalog = catalog.New(a.places, a.zones, a.containers, a.items, logger)
	a.snapshots = snapshot.NewService(database, logger)

	return a.catalog.Refresh(ctx)
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database", "error", err)
		}
		a.db = nil
	}
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// optionalString returns nil for an empty flag value.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
