package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/mcoot/podtracker/internal/config"
	"github.com/mcoot/podtracker/internal/storage/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, databaseURL string

	// openMigrator resolves the database URL from the flag, then config and env
	openMigrator := func() (*migrate.Migrate, error) {
		url := databaseURL
		if url == "" {
			if err := config.LoadDotEnv(".env"); err != nil {
				return nil, err
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return nil, err
			}
			url = cfg.Storage.DatabaseURL
		}
		if url == "" {
			return nil, errors.New("database URL is required (--database-url or DATABASE_URL)")
		}
		return postgres.NewMigrator(url)
	}

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply podtracker schema migrations",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("PODS_CONFIG_FILE"), "YAML config file")
	root.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres connection URL")

	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMigrator()
			if err != nil {
				return err
			}
			defer func() { _, _ = m.Close() }()
			return report(cmd, m, m.Up())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default one step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("steps must be a positive integer")
				}
				steps = n
			}
			m, err := openMigrator()
			if err != nil {
				return err
			}
			defer func() { _, _ = m.Close() }()
			return report(cmd, m, m.Steps(-steps))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMigrator()
			if err != nil {
				return err
			}
			defer func() { _, _ = m.Close() }()
			return report(cmd, m, nil)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Mark a version as applied without running it (clears the dirty flag)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("version must be an integer")
			}
			m, err := openMigrator()
			if err != nil {
				return err
			}
			defer func() { _, _ = m.Close() }()
			return report(cmd, m, m.Force(version))
		},
	})

	return root
}

// report prints the schema version after an operation. ErrNoChange is success.
func report(cmd *cobra.Command, m *migrate.Migrate, opErr error) error {
	if opErr != nil && !errors.Is(opErr, migrate.ErrNoChange) {
		return opErr
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		cmd.Println("no migrations applied")
		return nil
	}
	if err != nil {
		return err
	}
	cmd.Printf("version %d (dirty: %t)\n", version, dirty)
	return nil
}
