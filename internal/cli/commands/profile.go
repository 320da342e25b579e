package commands

import (
	"fmt"

	"github.com/briefhub-dev/briefhub/internal/cli/client"
	"github.com/spf13/cobra"
)

// NewProfileCmd creates the profile command group
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and update your account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileShow()
		},
	}

	cmd.AddCommand(newProfileUpdateCmd())
	return cmd
}

func runProfileShow() error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	return runProfileShowWith(app)
}

func runProfileShowWith(app *appContext) error {
	if err := app.requireUserLogin(); err != nil {
		return err
	}

	user, err := app.api.GetOwnProfile()
	if err != nil {
		return err
	}

	fmt.Printf("Nickname: %s\n", user.Nickname)
	fmt.Printf("Email:    %s (verified: %s)\n", user.Email, yesNo(user.EmailVerified))
	if user.PhoneNumber != "" {
		fmt.Printf("Phone:    %s\n", user.PhoneNumber)
	}
	fmt.Printf("Admin:    %s\n", yesNo(user.IsAdmin))
	if user.LastLogin != nil {
		fmt.Printf("Last login: %s\n", user.LastLogin.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func newProfileUpdateCmd() *cobra.Command {
	var nickname, phone, password string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your account details",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.UpdateProfileRequest{}
			if cmd.Flags().Changed("nickname") {
				req.Nickname = &nickname
			}
			if cmd.Flags().Changed("phone") {
				req.PhoneNumber = &phone
			}
			if cmd.Flags().Changed("password") {
				req.Password = &password
			}
			return runProfileUpdate(req)
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "New display name")
	cmd.Flags().StringVar(&phone, "phone", "", "New phone number")
	cmd.Flags().StringVar(&password, "password", "", "New password")

	return cmd
}

func runProfileUpdate(req client.UpdateProfileRequest) error {
	if req.Nickname == nil && req.PhoneNumber == nil && req.Password == nil {
		return fmt.Errorf("nothing to update (set --nickname, --phone or --password)")
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireUserLogin(); err != nil {
		return err
	}

	user, err := app.api.UpdateOwnProfile(req)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Profile updated: %s (%s)\n", user.Nickname, user.Email)
	return nil
}
