package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskboard/internal/core/config"
	"taskboard/internal/core/database"
	"taskboard/internal/core/logger"
	"taskboard/internal/repo"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "taskboard-admin",
		Short:         "Operator commands for the taskboard API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default $CONFIG_PATH or ./configs/config.yaml)")

	load := func() (*config.Config, error) { return config.Load(cfgPath) }
	root.AddCommand(newMigrateCmd(load), newConfigCmd(load))
	return root
}

type loader func() (*config.Config, error)

func newMigrateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users and tasks tables",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			log, cleanup := logger.New(logger.FromConfig(cfg.Log))
			defer cleanup()

			if cfg.DB.Driver == "" || cfg.DB.Driver == database.DriverMemory {
				return errors.New("db.driver is memory, nothing to migrate")
			}
			stores, err := repo.Open(database.Opts{
				Driver:             cfg.DB.Driver,
				DSN:                cfg.DB.DSN,
				MaxOpenConns:       cfg.DB.MaxOpenConns,
				MaxIdleConns:       cfg.DB.MaxIdleConns,
				ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
				LogLevel:           cfg.DB.LogLevel,
			}, true)
			if err != nil {
				return err
			}
			defer stores.Close()
			log.Info("migrate done", zap.String("driver", cfg.DB.Driver), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))
			return nil
		},
	}
}

func newConfigCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return printConfig(cmd.OutOrStdout(), cfg)
		},
	}
}

func printConfig(w io.Writer, cfg *config.Config) error {
	c := *cfg
	if c.JWT.UsingDefaultSecret() {
		fmt.Fprintln(w, "WARNING: jwt.secret is the built-in development default; set JWT_SECRET")
	}
	c.JWT.Secret = "****"
	c.DB.DSN = database.MaskDSN(c.DB.DSN)
	if c.Redis.Password != "" {
		c.Redis.Password = "****"
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
