package commands

import (
	"fmt"

	"github.com/briefhub-dev/briefhub/internal/cli/guard"
	"github.com/briefhub-dev/briefhub/internal/cli/session"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// NewDashCmd creates the dash command
func NewDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Interactive dashboard",
		Long: `Interactive dashboard.

Navigate between views the same way the web UI does: every navigation runs
through the route guard, and admin views require a separate admin login that
lasts only until you quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard()
		},
	}
}

// dashView is one navigable destination.
type dashView struct {
	Label string
	Path  string
}

var dashViews = []dashView{
	{Label: "My briefings", Path: "/briefings"},
	{Label: "My profile", Path: "/profile"},
	{Label: "Admin: users", Path: "/admin/users"},
	{Label: "Admin: accounts", Path: "/admin/accounts"},
	{Label: "Admin: employees", Path: "/admin/employees"},
	{Label: "Quit", Path: ""},
}

func runDashboard() error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	for {
		templates := &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "> {{ .Label | cyan }}",
			Inactive: "  {{ .Label }}",
			Selected: "{{ .Label | green }}",
		}
		prompt := promptui.Select{
			Label:     "Where to?",
			Items:     dashViews,
			Templates: templates,
			Size:      len(dashViews),
		}
		index, _, err := prompt.Run()
		if err != nil {
			return nil // Ctrl+C quits
		}
		view := dashViews[index]
		if view.Path == "" {
			return nil
		}

		if err := navigate(app, view.Path); err != nil {
			fmt.Printf("Error: %v\n\n", err)
		}
	}
}

// navigate runs one path through the guard and acts on the decision,
// following at most a handful of redirects (login view → original request).
func navigate(app *appContext, path string) error {
	for hops := 0; hops < 4; hops++ {
		decision := guard.Decide(path, guardState(app.user), adminGuardState(app.admin))

		switch decision.Action {
		case guard.ShowLoading:
			// Sessions hydrate synchronously here, so this never lingers.
			continue
		case guard.Redirect:
			fmt.Printf("→ %s\n", decision.Target)
			switch decision.Target {
			case guard.PathLogin:
				if err := dashUserLogin(app); err != nil {
					return err
				}
				continue // retry the original navigation
			case guard.PathAdminLogin:
				if err := dashAdminLogin(app); err != nil {
					return err
				}
				continue
			default:
				// Redirected home: under-privileged for the requested view.
				fmt.Println("You don't have access to that view.")
				return nil
			}
		case guard.Render:
			return renderView(app, path)
		}
	}
	return fmt.Errorf("too many redirects navigating to %s", path)
}

func guardState(s *session.UserSession) guard.SessionState {
	return guard.SessionState{
		Authenticated: s.IsAuthenticated(),
		Role:          s.Role(),
	}
}

func adminGuardState(s *session.AdminSession) guard.SessionState {
	return guard.SessionState{
		Authenticated: s.IsAuthenticated(),
		Role:          s.Role(),
	}
}

func dashUserLogin(app *appContext) error {
	emailPrompt := promptui.Prompt{Label: "Email"}
	email, err := emailPrompt.Run()
	if err != nil {
		return fmt.Errorf("login cancelled")
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	tokenResp, err := app.api.LoginUser(email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	identity, err := app.user.Login(tokenResp.AccessToken)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	cacheIdentity(identity)
	fmt.Printf("✓ Logged in as %s\n", identity.DisplayName)
	return nil
}

func dashAdminLogin(app *appContext) error {
	usernamePrompt := promptui.Prompt{Label: "Admin username"}
	username, err := usernamePrompt.Run()
	if err != nil {
		return fmt.Errorf("login cancelled")
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	tokenResp, err := app.api.LoginAdmin(username, password)
	if err != nil {
		return fmt.Errorf("admin login failed: %w", err)
	}
	// Volatile by design: the token lives in memory until the dashboard exits.
	if err := app.admin.Login(tokenResp.AccessToken); err != nil {
		return fmt.Errorf("admin login failed: %w", err)
	}
	fmt.Println("✓ Admin elevation active for this dashboard session")
	return nil
}

func renderView(app *appContext, path string) error {
	switch path {
	case "/briefings":
		return runBriefingListWith(app)
	case "/profile":
		return runProfileShowWith(app)
	case "/admin/users":
		return runAdminUsersListWith(app)
	case "/admin/accounts":
		return runAdminAccountsListWith(app)
	case "/admin/employees":
		return runAdminEmployeesListWith(app)
	default:
		return fmt.Errorf("no view for %s", path)
	}
}
