package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prediction-registry/registry/pkg/config"
	"github.com/prediction-registry/registry/pkg/store/sql"
)

var version = "dev"

type options struct {
	configPath string
	logLevel   string
	storeURL   string

	config *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "registry",
		Short:         "Registry of epidemiological models and their predictions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"path to a JSON configuration file (REGISTRY_CONFIG is applied on top)")
	cmd.PersistentFlags().StringVarP(&opts.logLevel, "log-level", "l", "",
		"set the logging level (can be one of: debug, info, warn, error, or fatal)")
	cmd.PersistentFlags().StringVar(&opts.storeURL, "store-url", "",
		"database URL, e.g. sqlite://registry.db or postgres://user@host/db")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newUsersCmd(opts))
	cmd.AddCommand(newLanguagesCmd(opts))

	return cmd
}

func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}

	if cmd.Flags().Changed("store-url") {
		cfg.StoreURL = o.storeURL
	}

	if cfg.Version == config.Default().Version {
		cfg.Version = version
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	o.config = cfg

	return nil
}

// openStore connects to the configured database without migrating it.
func (o *options) openStore() (*sql.Store, error) {
	registryStore, err := sql.NewSQLStore(logrus.StandardLogger(), o.config)
	if err != nil {
		return nil, fmt.Errorf("failed to open the store: %w", err)
	}

	return registryStore, nil
}

func closeStore(registryStore *sql.Store) {
	if err := registryStore.Close(); err != nil {
		logrus.WithError(err).Warn("failed to close the store")
	}
}
