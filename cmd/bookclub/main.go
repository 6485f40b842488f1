package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/bookclub/internal/config"
	"github.com/dukerupert/bookclub/internal/database"
	"github.com/dukerupert/bookclub/internal/logging"
)

type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "bookclub",
		Short:         "Book club scheduling, ratings and availability server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath, _ = cmd.Flags().GetString("db")
			}
			a.cfg = cfg
			a.logger = logging.Setup(cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}
	root.PersistentFlags().String("db", "", "SQLite database path (overrides BOOKCLUB_DB_PATH)")

	root.AddCommand(
		a.serveCmd(),
		a.migrateCmd(),
		a.userCmd(),
		a.sessionsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openDB opens the configured database, applying pending migrations.
func (a *app) openDB() (*sql.DB, error) {
	db, err := database.Open(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and print the schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			v, err := database.Version(db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s at schema version %d\n", a.cfg.DBPath, v)
			return nil
		},
	}
}
