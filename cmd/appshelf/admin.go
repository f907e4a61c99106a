package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func initAdminCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init-admin",
		Short: "Create the admin account from ADMIN_EMAIL and ADMIN_PASSWORD",
		Long: `Create an admin account, or promote the existing account with that email.
Credentials are read from the ADMIN_EMAIL and ADMIN_PASSWORD environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			email := os.Getenv("ADMIN_EMAIL")
			password := os.Getenv("ADMIN_PASSWORD")
			if email == "" || password == "" {
				return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD environment variables are required")
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			user, created, err := a.Auth.EnsureAdmin(cmd.Context(), email, password, name)
			if user == nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}
			if err != nil {
				return err
			}

			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created admin user: %s\n", user.Email)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Admin user ready: %s\n", user.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Admin", "display name for a new admin")
	return cmd
}
