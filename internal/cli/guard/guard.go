// Package guard decides whether a requested view may render. The decision is
// a pure function of the path and the two session states, so it can be
// re-evaluated on every navigation without accumulating anything.
package guard

import "strings"

// Well-known paths
const (
	PathHome           = "/dashboard"
	PathLogin          = "/login"
	PathAdminLogin     = "/admin/login"
	PathAdminDashboard = "/admin/dashboard"

	adminPrefix = "/admin"
)

// Action is the outcome kind of a guard decision.
type Action int

const (
	// ShowLoading renders a neutral placeholder while the relevant session
	// is still hydrating. Redirecting before hydration completes would bounce
	// logged-in visitors to the login view on every cold start.
	ShowLoading Action = iota
	// Render lets the requested view through.
	Render
	// Redirect sends the visitor to Decision.Target, discarding the
	// original navigation.
	Redirect
)

// SessionState is the read-only view of a session domain the guard consumes.
type SessionState struct {
	Hydrating     bool
	Authenticated bool
	Role          string // "admin", "user", or "" when logged out
}

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Action Action
	Target string // set when Action == Redirect
}

func render() Decision            { return Decision{Action: Render} }
func loading() Decision           { return Decision{Action: ShowLoading} }
func redirect(to string) Decision { return Decision{Action: Redirect, Target: to} }

// route describes one entry of the static route table.
type route struct {
	requiresAuth  bool
	requiresAdmin bool
}

var routes = map[string]route{
	"/":                {},
	PathLogin:          {},
	"/register":        {},
	PathAdminLogin:     {},
	PathHome:           {requiresAuth: true},
	"/profile":         {requiresAuth: true},
	"/briefings":       {requiresAuth: true},
	PathAdminDashboard: {requiresAuth: true, requiresAdmin: true},
	"/admin/users":     {requiresAuth: true, requiresAdmin: true},
	"/admin/accounts":  {requiresAuth: true, requiresAdmin: true},
	"/admin/employees": {requiresAuth: true, requiresAdmin: true},
}

// classify resolves a path against the route table. Unknown paths inherit the
// protection of their scope: anything under /admin is admin-only, everything
// else requires a user login. Defaulting to protected means a typo in the
// table can never expose a view.
func classify(path string) route {
	if r, ok := routes[path]; ok {
		return r
	}
	if prefix, ok := longestPrefixRoute(path); ok {
		return prefix
	}
	if isAdminScoped(path) {
		return route{requiresAuth: true, requiresAdmin: true}
	}
	return route{requiresAuth: true}
}

// longestPrefixRoute matches nested paths like /briefings/abc123 against
// their parent entry.
func longestPrefixRoute(path string) (route, bool) {
	for p := path; p != "/" && p != ""; {
		idx := strings.LastIndex(p, "/")
		if idx <= 0 {
			break
		}
		p = p[:idx]
		if r, ok := routes[p]; ok {
			return r, true
		}
	}
	return route{}, false
}

func isAdminScoped(path string) bool {
	return path == adminPrefix || strings.HasPrefix(path, adminPrefix+"/")
}

// Decide gates rendering of the view at path given the current user and
// admin session states.
func Decide(path string, user, admin SessionState) Decision {
	r := classify(path)
	adminScoped := isAdminScoped(path)

	if !r.requiresAuth {
		return render()
	}

	if adminScoped {
		if admin.Hydrating {
			return loading()
		}
		if admin.Authenticated {
			return render()
		}
		// Logged in as a regular user but not as an admin: under-privileged,
		// not unauthenticated. Send them home rather than to the admin login.
		if !user.Hydrating && user.Authenticated && user.Role != "admin" {
			return redirect(PathHome)
		}
		return redirect(PathAdminLogin)
	}

	if user.Hydrating {
		return loading()
	}
	if !user.Authenticated {
		return redirect(PathLogin)
	}
	if r.requiresAdmin && user.Role != "admin" {
		return redirect(PathHome)
	}
	return render()
}
