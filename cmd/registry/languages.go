package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLanguagesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "manage the implementation language vocabulary",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add LANGUAGE...",
		Short: "add languages to the vocabulary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registryStore, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(registryStore)

			for _, language := range args {
				created, cErr := registryStore.CreateLanguage(cmd.Context(), language)
				if cErr != nil {
					return cErr
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", created.ID, created.Language)
			}

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "list the vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registryStore, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(registryStore)

			languages, cErr := registryStore.ListLanguages(cmd.Context())
			if cErr != nil {
				return cErr
			}

			for _, language := range languages {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", language.ID, language.Language)
			}

			return nil
		},
	})

	return cmd
}
