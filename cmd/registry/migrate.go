package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registryStore, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(registryStore)

			if err := registryStore.Migrate(cmd.Context()); err != nil {
				return err
			}

			logrus.Info("Database schema is up to date")

			return nil
		},
	}
}
