package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prediction-registry/registry/pkg/server"
	"github.com/prediction-registry/registry/pkg/service"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		address string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the registry HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("address") {
				opts.config.Address = address
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			registryStore, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(registryStore)

			if migrate {
				if err := registryStore.Migrate(ctx); err != nil {
					return err
				}
			}

			app, err := server.NewApp(opts.config, service.NewRegistryService(opts.config, registryStore), registryStore)
			if err != nil {
				return err
			}

			return server.Launch(ctx, opts.config, app)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "address to listen on, e.g. localhost:8080")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "migrate the database schema before serving")

	return cmd
}
