package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with your briefhub account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set BRIEFHUB_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set BRIEFHUB_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(email, password string) error {
	// Environment variables are useful for CI/CD
	if email == "" {
		email = os.Getenv("BRIEFHUB_EMAIL")
	}
	if password == "" {
		password = os.Getenv("BRIEFHUB_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or BRIEFHUB_EMAIL env var)")
	}

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

	fmt.Printf("Logging in to %s...\n", app.cfg.APIBaseURL)

	tokenResp, err := app.api.LoginUser(email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	identity, err := app.user.Login(tokenResp.AccessToken)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	cacheIdentity(identity)

	fmt.Println("✓ Login successful!")
	fmt.Printf("  User: %s (%s)\n", identity.DisplayName, identity.Email)
	if identity.IsAdmin {
		fmt.Println("  Role: Admin")
	}

	return nil
}

// promptPassword reads a password without echo when stdin is a terminal.
func promptPassword(label string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or BRIEFHUB_PASSWORD env var)")
	}
	fmt.Print(label)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()
	return string(bytePassword), nil
}
