package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout()
		},
	}
}

func runLogout() error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	// Logging out when already logged out is fine
	if err := app.user.Logout(); err != nil {
		return fmt.Errorf("failed to clear stored credential: %w", err)
	}
	cacheIdentity(nil)

	fmt.Println("✓ Logged out")
	return nil
}
