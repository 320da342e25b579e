package commands

import (
	"fmt"

	"github.com/briefhub-dev/briefhub/internal/cli/client"
	"github.com/spf13/cobra"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var nickname, email, password, phone string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new briefhub account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(nickname, email, password, phone)
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number (optional)")
	cmd.MarkFlagRequired("nickname")
	cmd.MarkFlagRequired("email")

	return cmd
}

func runRegister(nickname, email, password, phone string) error {
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

	user, err := app.api.Register(client.RegisterRequest{
		Nickname:    nickname,
		Email:       email,
		Password:    password,
		PhoneNumber: phone,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Println("✓ Account created!")
	fmt.Printf("  User: %s (%s)\n", user.Nickname, user.Email)
	fmt.Println("\nLog in with: briefhub login --email " + user.Email)
	return nil
}
