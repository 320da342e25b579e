package commands

import (
	"os"
	"testing"

	"github.com/spf13/cobra"
)

func TestLoginCommandStructure(t *testing.T) {
	cmd := NewLoginCmd()

	if cmd.Use != "login" {
		t.Errorf("Use = %q, want login", cmd.Use)
	}
	if cmd.Flags().Lookup("email") == nil {
		t.Error("expected --email flag to exist")
	}
	if cmd.Flags().Lookup("password") == nil {
		t.Error("expected --password flag to exist")
	}
}

func TestLoginCommand_MissingEmail(t *testing.T) {
	os.Unsetenv("BRIEFHUB_EMAIL")
	os.Unsetenv("BRIEFHUB_PASSWORD")

	err := runLogin("", "password123")
	if err == nil {
		t.Fatal("expected error when email is missing, got nil")
	}

	expectedError := "email is required (use --email flag or BRIEFHUB_EMAIL env var)"
	if err.Error() != expectedError {
		t.Errorf("expected error %q, got %q", expectedError, err.Error())
	}
}

func TestAdminLoginCommand_MissingUsername(t *testing.T) {
	os.Unsetenv("BRIEFHUB_ADMIN_USERNAME")

	err := runAdminLogin("", "password123")
	if err == nil {
		t.Fatal("expected error when username is missing, got nil")
	}

	expectedError := "username is required (use --username flag or BRIEFHUB_ADMIN_USERNAME env var)"
	if err.Error() != expectedError {
		t.Errorf("expected error %q, got %q", expectedError, err.Error())
	}
}

func TestAdminSessionHydratesFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(adminTokenEnv, "env-admin-token")

	app, err := newAppContext()
	if err != nil {
		t.Fatalf("newAppContext failed: %v", err)
	}

	if !app.admin.IsAuthenticated() {
		t.Error("admin session should pick up the environment token")
	}
	if app.admin.Token() != "env-admin-token" {
		t.Errorf("Token() = %q", app.admin.Token())
	}
}

func TestAdminSessionEmptyWithoutEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(adminTokenEnv, "")

	app, err := newAppContext()
	if err != nil {
		t.Fatalf("newAppContext failed: %v", err)
	}

	if app.admin.IsAuthenticated() {
		t.Error("admin session should be empty without the environment token")
	}
	if err := app.requireAdminLogin(); err == nil {
		t.Error("requireAdminLogin should fail without a token")
	}
}

func TestBriefingCommandStructure(t *testing.T) {
	cmd := NewBriefingCmd()

	wantSubcommands := []string{"ls", "create", "show", "rename", "rm", "chat", "compile"}
	for _, name := range wantSubcommands {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("briefing command is missing subcommand %q", name)
		}
	}
}

func TestAdminCommandStructure(t *testing.T) {
	cmd := NewAdminCmd()

	wantSubcommands := map[string][]string{
		"login":     nil,
		"logout":    nil,
		"whoami":    nil,
		"users":     {"ls", "show", "update", "rm"},
		"accounts":  {"ls", "create", "show", "update", "rm"},
		"employees": {"ls", "show", "update", "test-connections"},
	}
	for name, children := range wantSubcommands {
		sub := findSubcommand(cmd, name)
		if sub == nil {
			t.Errorf("admin command is missing subcommand %q", name)
			continue
		}
		for _, child := range children {
			if findSubcommand(sub, child) == nil {
				t.Errorf("admin %s is missing subcommand %q", name, child)
			}
		}
	}
}

func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, sub := range cmd.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	return nil
}
