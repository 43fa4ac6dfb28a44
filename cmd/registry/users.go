package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prediction-registry/registry/pkg/auth"
	"github.com/prediction-registry/registry/pkg/store"
	"github.com/prediction-registry/registry/pkg/validation"
)

func newUsersCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "manage user accounts and their API keys",
	}

	cmd.AddCommand(newUsersCreateCmd(opts))
	cmd.AddCommand(newUsersRotateKeyCmd(opts))

	return cmd
}

func newUsersCreateCmd(opts *options) *cobra.Command {
	var (
		name        string
		institution string
		noAuthor    bool
	)

	cmd := &cobra.Command{
		Use:   "create USERNAME",
		Short: "create a user with an author profile and print its API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cleaned, err := validation.CleanInstitution(institution, validation.DefaultMaxInstitutionLength)
			if err != nil {
				return err
			}

			if name == "" {
				name = args[0]
			}

			secret, hash, err := newAPIKey()
			if err != nil {
				return err
			}

			registryStore, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(registryStore)

			user, cErr := registryStore.CreateUser(cmd.Context(), &store.UserInput{
				Username:   args[0],
				Name:       name,
				APIKeyHash: hash,
			})
			if cErr != nil {
				return cErr
			}

			if !noAuthor {
				if _, cErr := registryStore.CreateAuthor(cmd.Context(), user.ID, cleaned); cErr != nil {
					return cErr
				}
			}

			logrus.WithField("username", user.Username).Info("Created user")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s:%s\n", auth.HeaderUIDKey, user.Username, secret)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name of the user (defaults to USERNAME)")
	cmd.Flags().StringVar(&institution, "institution", "", "institution of the author profile")
	cmd.Flags().BoolVar(&noAuthor, "no-author", false, "do not create an author profile")

	return cmd
}

func newUsersRotateKeyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rotate-key USERNAME",
		Short: "replace the API key of a user and print the new one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, hash, err := newAPIKey()
			if err != nil {
				return err
			}

			registryStore, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(registryStore)

			if cErr := registryStore.SetUserAPIKeyHash(cmd.Context(), args[0], hash); cErr != nil {
				return cErr
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s:%s\n", auth.HeaderUIDKey, args[0], secret)

			return nil
		},
	}
}

func newAPIKey() (string, string, error) {
	secret, err := auth.GenerateSecret()
	if err != nil {
		return "", "", err
	}

	hash, err := auth.HashSecret(secret)
	if err != nil {
		return "", "", err
	}

	return secret, hash, nil
}
