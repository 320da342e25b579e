package commands

import (
	"fmt"
	"os"

	"github.com/briefhub-dev/briefhub/internal/cli/client"
	"github.com/briefhub-dev/briefhub/internal/cli/session"
	"github.com/briefhub-dev/briefhub/internal/cli/userconfig"
)

const (
	userTokenAccount = "user-token"

	// adminTokenEnv carries the admin token between invocations within one
	// shell session. Admin elevation is deliberately volatile: it is never
	// written to the keyring or to disk.
	adminTokenEnv = "BRIEFHUB_ADMIN_TOKEN"
)

// appContext bundles the pieces every command needs: the local config, both
// session domains, and an API client wired to them.
type appContext struct {
	cfg   *userconfig.UserConfig
	user  *session.UserSession
	admin *session.AdminSession
	api   *client.Client
}

// newAppContext loads the local config and hydrates both sessions. The user
// session hydrates from the OS keyring; the admin session from the
// environment, so it lives only as long as the shell that exported it.
func newAppContext() (*appContext, error) {
	cfg, err := userconfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	user := session.NewUserSession(session.NewKeyringStore(userTokenAccount))

	adminStore := session.NewMemoryStore()
	if token := os.Getenv(adminTokenEnv); token != "" {
		_ = adminStore.Save(token)
	}
	admin := session.NewAdminSession(adminStore)

	return &appContext{
		cfg:   cfg,
		user:  user,
		admin: admin,
		api:   client.New(cfg.APIBaseURL, user, admin),
	}, nil
}

// requireUserLogin fails fast with a friendly message instead of letting the
// backend's 401 surface for commands that obviously need a login.
func (a *appContext) requireUserLogin() error {
	if !a.user.IsAuthenticated() {
		return fmt.Errorf("not logged in. Run 'briefhub login' first")
	}
	return nil
}

// requireAdminLogin checks the admin domain the same way.
func (a *appContext) requireAdminLogin() error {
	if !a.admin.IsAuthenticated() {
		return fmt.Errorf("not logged in as admin. Run 'briefhub admin login' and export %s", adminTokenEnv)
	}
	return nil
}

// cacheIdentity mirrors the session identity into the local config so
// whoami works without a round trip.
func cacheIdentity(identity *session.Identity) {
	if identity == nil {
		_ = userconfig.SetIdentity(nil)
		return
	}
	_ = userconfig.SetIdentity(&userconfig.CachedIdentity{
		ID:          identity.ID,
		DisplayName: identity.DisplayName,
		Email:       identity.Email,
		IsAdmin:     identity.IsAdmin,
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
