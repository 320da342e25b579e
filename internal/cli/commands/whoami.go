package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity of the current login",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami()
		},
	}
}

func runWhoami() error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	if identity := app.user.Identity(); identity != nil {
		fmt.Printf("User: %s (%s)\n", identity.DisplayName, identity.Email)
		fmt.Printf("Role: %s\n", app.user.Role())
	} else {
		fmt.Println("User: not logged in")
	}

	if app.admin.IsAuthenticated() {
		fmt.Println("Admin: elevated (token present)")
	} else {
		fmt.Println("Admin: not elevated")
	}

	return nil
}
