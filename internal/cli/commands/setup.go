package commands

import (
	"fmt"

	"github.com/briefhub-dev/briefhub/internal/cli/client"
	"github.com/spf13/cobra"
)

// NewSetupCmd creates the setup command
func NewSetupCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the first administrator on a fresh deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(username, password)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username for the first admin")
	cmd.Flags().StringVar(&password, "password", "", "Password (will prompt if not provided)")
	cmd.MarkFlagRequired("username")

	return cmd
}

func runSetup(username, password string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	if password == "" {
		password, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
	}

	if err := app.api.Setup(client.SetupRequest{Username: username, Password: password}); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	fmt.Println("✓ First administrator created.")
	fmt.Println("\nLog in with: briefhub admin login --username " + username)
	return nil
}
