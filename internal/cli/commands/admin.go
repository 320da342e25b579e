package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/briefhub-dev/briefhub/internal/cli/client"
	"github.com/spf13/cobra"
)

// NewAdminCmd creates the admin command group. Admin elevation is volatile:
// the token lives in the shell environment, never on disk, so closing the
// shell drops the elevation.
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator operations",
	}

	cmd.AddCommand(newAdminLoginCmd())
	cmd.AddCommand(newAdminLogoutCmd())
	cmd.AddCommand(newAdminWhoamiCmd())
	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminAccountsCmd())
	cmd.AddCommand(newAdminEmployeesCmd())

	return cmd
}

func newAdminLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain an admin token for this shell session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminLogin(username, password)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Admin username (or set BRIEFHUB_ADMIN_USERNAME)")
	cmd.Flags().StringVar(&password, "password", "", "Password (will prompt if not provided)")

	return cmd
}

func runAdminLogin(username, password string) error {
	if username == "" {
		username = os.Getenv("BRIEFHUB_ADMIN_USERNAME")
	}
	if username == "" {
		return fmt.Errorf("username is required (use --username flag or BRIEFHUB_ADMIN_USERNAME env var)")
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

	tokenResp, err := app.api.LoginAdmin(username, password)
	if err != nil {
		return fmt.Errorf("admin login failed: %w", err)
	}
	if err := app.admin.Login(tokenResp.AccessToken); err != nil {
		return fmt.Errorf("admin login failed: %w", err)
	}

	fmt.Fprintln(os.Stderr, "✓ Admin login successful. Export the token for this shell session:")
	fmt.Fprintln(os.Stderr, "")
	fmt.Printf("export %s=%s\n", adminTokenEnv, tokenResp.AccessToken)
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Or run: eval \"$(briefhub admin login --username ... --password ...)\"")
	return nil
}

func newAdminLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the admin token for this shell session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.admin.Logout(); err != nil {
				return err
			}

			fmt.Fprintln(os.Stderr, "✓ Admin session cleared. Also drop the token from this shell:")
			fmt.Fprintln(os.Stderr, "")
			fmt.Printf("unset %s\n", adminTokenEnv)
			return nil
		},
	}
}

func newAdminWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current admin identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAdminLogin(); err != nil {
				return err
			}

			// The admin token is never decoded client-side; identity comes
			// from the backend.
			admin, err := app.api.GetOwnAdminProfile()
			if err != nil {
				return err
			}
			fmt.Printf("Admin: %s (%s)\n", admin.Username, admin.ID)
			return nil
		},
	}
}

// newAdminUsersCmd manages end-user accounts.
func newAdminUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage end-user accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminUsersList()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminUserShow(args[0])
		},
	})

	var active, admin bool
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.UpdateUserRequest{}
			if cmd.Flags().Changed("active") {
				req.IsActive = &active
			}
			if cmd.Flags().Changed("admin") {
				req.IsAdmin = &admin
			}
			return runAdminUserUpdate(args[0], req)
		},
	}
	updateCmd.Flags().BoolVar(&active, "active", true, "Whether the account may log in")
	updateCmd.Flags().BoolVar(&admin, "admin", false, "Whether the account carries the admin flag")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a user account",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminUserDelete(args[0])
		},
	})

	return cmd
}

func runAdminUsersList() error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	return runAdminUsersListWith(app)
}

func runAdminUsersListWith(app *appContext) error {
	if err := app.requireAdminLogin(); err != nil {
		return err
	}

	users, err := app.api.ListUsers()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNICKNAME\tEMAIL\tACTIVE\tADMIN")
	fmt.Fprintln(w, "──\t────────\t─────\t──────\t─────")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Nickname, u.Email, yesNo(u.IsActive), yesNo(u.IsAdmin))
	}
	w.Flush()
	return nil
}

func runAdminUserShow(id string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAdminLogin(); err != nil {
		return err
	}

	u, err := app.api.GetUser(id)
	if err != nil {
		return err
	}
	fmt.Printf("Nickname: %s\n", u.Nickname)
	fmt.Printf("Email:    %s\n", u.Email)
	fmt.Printf("Active:   %s\n", yesNo(u.IsActive))
	fmt.Printf("Admin:    %s\n", yesNo(u.IsAdmin))
	if u.LastLogin != nil {
		fmt.Printf("Last login: %s\n", u.LastLogin.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runAdminUserUpdate(id string, req client.UpdateUserRequest) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAdminLogin(); err != nil {
		return err
	}

	u, err := app.api.UpdateUser(id, req)
	if err != nil {
		return err
	}
	fmt.Printf("✓ User updated: %s (active: %s, admin: %s)\n", u.Email, yesNo(u.IsActive), yesNo(u.IsAdmin))
	return nil
}

func runAdminUserDelete(id string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAdminLogin(); err != nil {
		return err
	}

	if err := app.api.DeleteUser(id); err != nil {
		return err
	}
	fmt.Println("✓ User deleted")
	return nil
}

// newAdminAccountsCmd manages administrator accounts.
func newAdminAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage administrator accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List administrator accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminAccountsList()
		},
	})

	var username, password string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminAccountCreate(username, password)
		},
	}
	createCmd.Flags().StringVar(&username, "username", "", "Username for the new admin")
	createCmd.Flags().StringVar(&password, "password", "", "Password (will prompt if not provided)")
	createCmd.MarkFlagRequired("username")
	cmd.AddCommand(createCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one administrator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminAccountShow(args[0])
		},
	})

	var newUsername, newPassword string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an administrator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.UpdateAdminUserRequest{}
			if cmd.Flags().Changed("username") {
				req.Username = &newUsername
			}
			if cmd.Flags().Changed("password") {
				req.Password = &newPassword
			}
			return runAdminAccountUpdate(args[0], req)
		},
	}
	updateCmd.Flags().StringVar(&newUsername, "username", "", "New username")
	updateCmd.Flags().StringVar(&newPassword, "password", "", "New password")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an administrator account",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminAccountDelete(args[0])
		},
	})

	return cmd
}

func runAdminAccountsList() error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	return runAdminAccountsListWith(app)
}

func runAdminAccountsListWith(app *appContext) error {
	if err := app.requireAdminLogin(); err != nil {
		return err
	}

	admins, err := app.api.ListAdminUsers()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tLAST LOGIN")
	fmt.Fprintln(w, "──\t────────\t──────────")
	for _, a := range admins {
		lastLogin := "never"
		if a.LastLogin != nil {
			lastLogin = a.LastLogin.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID, a.Username, lastLogin)
	}
	w.Flush()
	return nil
}

func runAdminAccountCreate(username, password string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAdminLogin(); err != nil {
		return err
	}

	if password == "" {
		password, err = promptPassword("Password for new admin: ")
		if err != nil {
			return err
		}
	}

	admin, err := app.api.CreateAdminUser(client.CreateAdminUserRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Admin account created: %s (%s)\n", admin.Username, admin.ID)
	return nil
}

func runAdminAccountShow(id string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAdminLogin(); err != nil {
		return err
	}

	admin, err := app.api.GetAdminUser(id)
	if err != nil {
		return err
	}

	fmt.Printf("ID:         %s\n", admin.ID)
	fmt.Printf("Username:   %s\n", admin.Username)
	lastLogin := "never"
	if admin.LastLogin != nil {
		lastLogin = admin.LastLogin.Format("2006-01-02 15:04")
	}
	fmt.Printf("Last login: %s\n", lastLogin)
	return nil
}

func runAdminAccountUpdate(id string, req client.UpdateAdminUserRequest) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAdminLogin(); err != nil {
		return err
	}

	admin, err := app.api.UpdateAdminUser(id, req)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Admin account updated: %s (%s)\n", admin.Username, admin.ID)
	return nil
}

func runAdminAccountDelete(id string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAdminLogin(); err != nil {
		return err
	}

	if err := app.api.DeleteAdminUser(id); err != nil {
		return err
	}
	fmt.Println("✓ Admin account deleted")
	return nil
}

// newAdminEmployeesCmd manages the AI employee roster.
func newAdminEmployeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Manage the AI employee roster",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List AI employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminEmployeesList()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one AI employee persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminEmployeeShow(args[0])
		},
	})

	var role, model string
	var active bool
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Tune an AI employee persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.UpdateEmployeeRequest{}
			if cmd.Flags().Changed("role") {
				req.Role = &role
			}
			if cmd.Flags().Changed("model") {
				req.Model = &model
			}
			if cmd.Flags().Changed("active") {
				req.IsActive = &active
			}
			return runAdminEmployeeUpdate(args[0], req)
		},
	}
	updateCmd.Flags().StringVar(&role, "role", "", "New role description")
	updateCmd.Flags().StringVar(&model, "model", "", "Per-employee model override")
	updateCmd.Flags().BoolVar(&active, "active", true, "Whether the employee is active")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "test-connections",
		Short: "Check AI provider connectivity for every active employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminEmployeesTest()
		},
	})

	return cmd
}

func runAdminEmployeesList() error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	return runAdminEmployeesListWith(app)
}

func runAdminEmployeesListWith(app *appContext) error {
	if err := app.requireAdminLogin(); err != nil {
		return err
	}

	employees, err := app.api.ListEmployees()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE\tMODEL\tACTIVE")
	fmt.Fprintln(w, "──\t────\t────\t─────\t──────")
	for _, e := range employees {
		model := e.Model
		if model == "" {
			model = "(default)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Role, model, yesNo(e.IsActive))
	}
	w.Flush()
	return nil
}

func runAdminEmployeeShow(id string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAdminLogin(); err != nil {
		return err
	}

	e, err := app.api.GetEmployee(id)
	if err != nil {
		return err
	}

	model := e.Model
	if model == "" {
		model = "(default)"
	}
	fmt.Printf("ID:     %s\n", e.ID)
	fmt.Printf("Name:   %s\n", e.Name)
	fmt.Printf("Role:   %s\n", e.Role)
	fmt.Printf("Email:  %s\n", e.Email)
	fmt.Printf("Model:  %s\n", model)
	fmt.Printf("Active: %s\n", yesNo(e.IsActive))
	fmt.Printf("System prompt:\n%s\n", e.SystemPrompt)
	return nil
}

func runAdminEmployeeUpdate(id string, req client.UpdateEmployeeRequest) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAdminLogin(); err != nil {
		return err
	}

	e, err := app.api.UpdateEmployee(id, req)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Employee updated: %s (%s)\n", e.Name, e.Role)
	return nil
}

func runAdminEmployeesTest() error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireAdminLogin(); err != nil {
		return err
	}

	results, err := app.api.TestAIConnections()
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.OK {
			fmt.Printf("✓ %s\n", r.Employee)
		} else {
			fmt.Printf("✗ %s: %s\n", r.Employee, r.Error)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d employees failed the connection test", failed, len(results))
	}
	return nil
}
