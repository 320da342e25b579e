package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/briefhub-dev/briefhub/internal/cli/client"
	"github.com/briefhub-dev/briefhub/internal/cli/guard"
	"github.com/briefhub-dev/briefhub/internal/cli/session"
	"github.com/briefhub-dev/briefhub/internal/config"
	"github.com/briefhub-dev/briefhub/internal/server"
)

// startBackend boots a real server over a temp sqlite database and a mock AI
// provider, and returns an API client wired to fresh in-memory sessions.
func startBackend(t *testing.T) (*client.Client, *session.UserSession, *session.AdminSession) {
	t.Helper()

	chatTurns := &atomic.Int32{}
	aiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// First turn: a question. Second turn onward: done marker.
		reply := "Tell me more about your idea."
		if chatTurns.Add(1) > 1 {
			reply = "Thanks, that is everything I need. [INTERVIEW_COMPLETE]"
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(aiServer.Close)

	cfg := &config.Config{
		Server:   config.ServerConfig{Address: ":0"},
		Database: config.DatabaseConfig{URL: filepath.Join(t.TempDir(), "e2e.sqlite")},
		Redis:    config.RedisConfig{Address: "localhost:6379"},
		AI:       config.AIConfig{BaseURL: aiServer.URL, Model: "test-model"},
	}

	srv, err := server.New(cfg, zerolog.Nop(), "e2e")
	require.NoError(t, err)

	apiServer := httptest.NewServer(srv.Router())
	t.Cleanup(apiServer.Close)

	user := session.NewUserSession(session.NewMemoryStore())
	admin := session.NewAdminSession(session.NewMemoryStore())
	return client.New(apiServer.URL, user, admin), user, admin
}

func TestFullFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	api, user, admin := startBackend(t)

	t.Run("Setup", func(t *testing.T) {
		require.NoError(t, api.Setup(client.SetupRequest{
			Username: "root",
			Password: "adminpass123",
		}))

		// Setup is one-shot
		err := api.Setup(client.SetupRequest{Username: "root2", Password: "adminpass123"})
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusConflict, apiErr.StatusCode)
	})

	t.Run("AdminLogin", func(t *testing.T) {
		tokenResp, err := api.LoginAdmin("root", "adminpass123")
		require.NoError(t, err)
		require.Equal(t, "bearer", tokenResp.TokenType)

		require.NoError(t, admin.Login(tokenResp.AccessToken))
		require.True(t, admin.IsAuthenticated())

		me, err := api.GetOwnAdminProfile()
		require.NoError(t, err)
		require.Equal(t, "root", me.Username)
	})

	t.Run("RegisterAndLoginUser", func(t *testing.T) {
		_, err := api.Register(client.RegisterRequest{
			Nickname: "alice",
			Email:    "alice@example.com",
			Password: "userpass123",
		})
		require.NoError(t, err)

		// Wrong password surfaces the backend's detail message
		_, err = api.LoginUser("alice@example.com", "wrong")
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		require.NotEmpty(t, apiErr.Detail)

		tokenResp, err := api.LoginUser("alice@example.com", "userpass123")
		require.NoError(t, err)

		identity, err := user.Login(tokenResp.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "alice", identity.DisplayName)
		require.False(t, identity.IsAdmin)
	})

	t.Run("RouteGuard", func(t *testing.T) {
		userState := guard.SessionState{Authenticated: user.IsAuthenticated(), Role: user.Role()}
		adminState := guard.SessionState{Authenticated: admin.IsAuthenticated(), Role: admin.Role()}

		require.Equal(t, guard.Render, guard.Decide("/briefings", userState, adminState).Action)
		require.Equal(t, guard.Render, guard.Decide("/admin/users", userState, adminState).Action)

		// A plain user without admin elevation is sent home, not to the
		// admin login
		decision := guard.Decide("/admin/users", userState, guard.SessionState{})
		require.Equal(t, guard.Redirect, decision.Action)
		require.Equal(t, guard.PathHome, decision.Target)
	})

	t.Run("Profile", func(t *testing.T) {
		me, err := api.GetOwnProfile()
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", me.Email)

		nickname := "alice-updated"
		updated, err := api.UpdateOwnProfile(client.UpdateProfileRequest{Nickname: &nickname})
		require.NoError(t, err)
		require.Equal(t, "alice-updated", updated.Nickname)
	})

	var briefingID string

	t.Run("BriefingLifecycle", func(t *testing.T) {
		b, err := api.CreateBriefing("My first video")
		require.NoError(t, err)
		require.Equal(t, "in_progress", b.Status)
		briefingID = b.ID

		// Duplicate title is rejected
		_, err = api.CreateBriefing("My first video")
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusConflict, apiErr.StatusCode)

		list, err := api.ListBriefings()
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("InterviewChat", func(t *testing.T) {
		resp, err := api.Chat(briefingID, "interviewer", "I want to make a video about Go.")
		require.NoError(t, err)
		require.False(t, resp.InterviewComplete)
		require.NotEmpty(t, resp.Reply)

		resp, err = api.Chat(briefingID, "interviewer", "That is all I have.")
		require.NoError(t, err)
		require.True(t, resp.InterviewComplete)
		require.NotContains(t, resp.Reply, "[INTERVIEW_COMPLETE]")

		// Both turns landed in the conversation history
		b, err := api.GetBriefing(briefingID)
		require.NoError(t, err)
		require.Len(t, b.Messages, 4)
		require.Equal(t, "interviewer", b.LastEditedBy)
	})

	t.Run("AdminViews", func(t *testing.T) {
		users, err := api.ListUsers()
		require.NoError(t, err)
		require.Len(t, users, 1)

		employees, err := api.ListEmployees()
		require.NoError(t, err)
		require.NotEmpty(t, employees)

		results, err := api.TestAIConnections()
		require.NoError(t, err)
		require.Len(t, results, len(employees))
		for _, r := range results {
			require.True(t, r.OK, "employee %s failed: %s", r.Employee, r.Error)
		}
	})

	t.Run("DomainIsolation", func(t *testing.T) {
		// A user token presented on an admin endpoint must never pass the
		// admin gate: under-privileged, not unauthenticated
		miswired := clientWithTokens(t, api, user, user)
		_, err := miswired.ListUsers()
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusForbidden, apiErr.StatusCode)

		// Logging the admin out does not touch the user session
		require.NoError(t, admin.Logout())
		require.True(t, user.IsAuthenticated())
		_, err = api.GetOwnProfile()
		require.NoError(t, err)
	})

	t.Run("Logout", func(t *testing.T) {
		require.NoError(t, user.Logout())
		require.NoError(t, user.Logout()) // idempotent

		_, err := api.GetOwnProfile()
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})
}

// clientWithTokens builds a client against the same backend with a different
// domain wiring.
func clientWithTokens(t *testing.T, base *client.Client, user, admin client.TokenSource) *client.Client {
	t.Helper()
	return client.New(base.BaseURL(), user, admin)
}
