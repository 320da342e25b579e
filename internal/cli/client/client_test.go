package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// staticToken is a TokenSource returning a fixed token.
type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestApplyHeadersPerDomain(t *testing.T) {
	tests := []struct {
		name     string
		user     TokenSource
		admin    TokenSource
		domain   string
		wantAuth string
	}{
		{
			name:     "user domain attaches user token",
			user:     staticToken("user-tok"),
			admin:    staticToken("admin-tok"),
			domain:   DomainUser,
			wantAuth: "Bearer user-tok",
		},
		{
			name:     "admin domain attaches admin token",
			user:     staticToken("user-tok"),
			admin:    staticToken("admin-tok"),
			domain:   DomainAdmin,
			wantAuth: "Bearer admin-tok",
		},
		{
			name:     "empty token means no Authorization header",
			user:     staticToken(""),
			admin:    staticToken("admin-tok"),
			domain:   DomainUser,
			wantAuth: "",
		},
		{
			name:     "nil source means no Authorization header",
			user:     nil,
			admin:    nil,
			domain:   DomainAdmin,
			wantAuth: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("http://example.test", tt.user, tt.admin)
			req := httptest.NewRequest(http.MethodGet, "http://example.test/x", nil)
			c.applyHeaders(req, tt.domain)

			if got := req.Header.Get("Authorization"); got != tt.wantAuth {
				t.Errorf("Authorization = %q, want %q", got, tt.wantAuth)
			}
			if got := req.Header.Get("ngrok-skip-browser-warning"); got != "true" {
				t.Errorf("ngrok-skip-browser-warning = %q, want true", got)
			}
		})
	}
}

func TestUnauthenticatedCallSurfacesBackendDetail(t *testing.T) {
	var sawAuthHeader bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuthHeader = r.Header["Authorization"]
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
	}))
	defer server.Close()

	// Logged out: the call still goes out without an Authorization header
	// and the backend's rejection comes back as the error.
	c := New(server.URL, staticToken(""), staticToken(""))
	_, err := c.ListUsers()
	if err == nil {
		t.Fatal("expected error")
	}
	if sawAuthHeader {
		t.Error("Authorization header was sent without a token")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Detail != "Not authenticated" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestErrorFallsBackToStatusMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "non-JSON body", body: "<html>gateway error</html>"},
		{name: "JSON without detail", body: `{"message": "nope"}`},
		{name: "empty body", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := New(server.URL, staticToken("tok"), nil)
			_, err := c.GetOwnProfile()

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error is %T, want *APIError", err)
			}
			if apiErr.Detail != "HTTP 502 Bad Gateway" {
				t.Errorf("Detail = %q, want %q", apiErr.Detail, "HTTP 502 Bad Gateway")
			}
		})
	}
}

func TestLoginUserPostsFormEncoded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login/user" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		if r.PostForm.Get("email") != "alice@example.com" || r.PostForm.Get("password") != "secret" {
			t.Errorf("form = %v", r.PostForm)
		}
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "tok-123", TokenType: "bearer"})
	}))
	defer server.Close()

	c := New(server.URL, nil, nil)
	resp, err := c.LoginUser("alice@example.com", "secret")
	if err != nil {
		t.Fatalf("LoginUser failed: %v", err)
	}
	if resp.AccessToken != "tok-123" || resp.TokenType != "bearer" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestChatHitsEmployeeSubResource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/briefings/b-1/chat/interviewer" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req ChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.UserMessage != "hello" {
			t.Errorf("user_message = %q", req.UserMessage)
		}
		json.NewEncoder(w).Encode(ChatResponse{Reply: "hi", InterviewComplete: false})
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok"), nil)
	resp, err := c.Chat("b-1", "interviewer", "hello")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Reply != "hi" {
		t.Errorf("reply = %q", resp.Reply)
	}
}

func TestAdminUserByIDRoundTrips(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin_users/adm-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(AdminUser{ID: "adm-1", Username: "root"})
		case http.MethodPut:
			var req UpdateAdminUserRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Username == nil || *req.Username != "root2" {
				t.Errorf("username = %v", req.Username)
			}
			if req.Password != nil {
				t.Errorf("password should be omitted, got %v", req.Password)
			}
			json.NewEncoder(w).Encode(AdminUser{ID: "adm-1", Username: "root2"})
		default:
			t.Errorf("method = %s", r.Method)
		}
	}))
	defer server.Close()

	c := New(server.URL, nil, staticToken("admin-tok"))

	admin, err := c.GetAdminUser("adm-1")
	if err != nil {
		t.Fatalf("GetAdminUser failed: %v", err)
	}
	if admin.Username != "root" {
		t.Errorf("username = %q", admin.Username)
	}

	username := "root2"
	admin, err = c.UpdateAdminUser("adm-1", UpdateAdminUserRequest{Username: &username})
	if err != nil {
		t.Fatalf("UpdateAdminUser failed: %v", err)
	}
	if admin.Username != "root2" {
		t.Errorf("username = %q", admin.Username)
	}
}

func TestGetEmployeeByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/employees/emp-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Employee{ID: "emp-1", Name: "interviewer", SystemPrompt: "You interview users."})
	}))
	defer server.Close()

	c := New(server.URL, nil, staticToken("admin-tok"))
	employee, err := c.GetEmployee("emp-1")
	if err != nil {
		t.Fatalf("GetEmployee failed: %v", err)
	}
	if employee.Name != "interviewer" || employee.SystemPrompt == "" {
		t.Errorf("employee = %+v", employee)
	}
}

func TestDeleteBriefingSendsNoBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "" {
			t.Errorf("unexpected Content-Type %q", r.Header.Get("Content-Type"))
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok"), nil)
	if err := c.DeleteBriefing("b-1"); err != nil {
		t.Fatalf("DeleteBriefing failed: %v", err)
	}
}
