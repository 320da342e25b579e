package briefings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/briefhub-dev/briefhub/internal/ai"
	"github.com/briefhub-dev/briefhub/internal/config"
	"github.com/briefhub-dev/briefhub/internal/employees"
	"github.com/briefhub-dev/briefhub/internal/models"
)

// fakeAIServer answers every completion with the given reply
func fakeAIServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
}

func newTestService(t *testing.T, aiURL string) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := employees.Seed(db, zerolog.Nop()); err != nil {
		t.Fatalf("failed to seed employees: %v", err)
	}

	client := ai.New(config.AIConfig{BaseURL: aiURL, Model: "test-model"})
	return NewService(db, client, zerolog.Nop()), db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Nickname: "tester", Email: email, PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestCreateRejectsDuplicateTitle(t *testing.T) {
	svc, db := newTestService(t, "http://unused")
	user := createUser(t, db, "a@example.com")

	if _, err := svc.Create(user.ID, "My Launch", nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(user.ID, "My Launch", nil); !errors.Is(err, ErrDuplicateTitle) {
		t.Errorf("Create() duplicate error = %v, want ErrDuplicateTitle", err)
	}

	// Same title for a different user is fine
	other := createUser(t, db, "b@example.com")
	if _, err := svc.Create(other.ID, "My Launch", nil); err != nil {
		t.Errorf("Create() for other user error = %v", err)
	}
}

func TestGetForUserEnforcesOwnership(t *testing.T) {
	svc, db := newTestService(t, "http://unused")
	owner := createUser(t, db, "owner@example.com")
	intruder := createUser(t, db, "intruder@example.com")

	briefing, err := svc.Create(owner.ID, "Secret", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.GetForUser(intruder.ID, briefing.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("GetForUser() intruder error = %v, want ErrNotOwner", err)
	}
	if _, err := svc.GetForUser(owner.ID, "01NOTAREALID00000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetForUser() missing error = %v, want ErrNotFound", err)
	}
}

func TestChatRecordsBothTurns(t *testing.T) {
	server := fakeAIServer(t, "Tell me more about your audience.")
	defer server.Close()

	svc, db := newTestService(t, server.URL)
	user := createUser(t, db, "a@example.com")
	briefing, err := svc.Create(user.ID, "Podcast pilot", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	result, err := svc.Chat(context.Background(), user.ID, briefing.ID, "interviewer", "I want to start a podcast")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.Reply != "Tell me more about your audience." {
		t.Errorf("reply = %q", result.Reply)
	}
	if result.InterviewComplete {
		t.Error("InterviewComplete = true without marker")
	}

	loaded, err := svc.GetForUser(user.ID, briefing.ID)
	if err != nil {
		t.Fatalf("GetForUser() error = %v", err)
	}
	if len(loaded.Messages) != 2 {
		t.Fatalf("recorded %d messages, want 2", len(loaded.Messages))
	}
	if loaded.Messages[0].SenderType != models.SenderUser || loaded.Messages[1].SenderType != models.SenderEmployee {
		t.Errorf("unexpected sender order: %s, %s", loaded.Messages[0].SenderType, loaded.Messages[1].SenderType)
	}
	if loaded.LastEditedBy != "interviewer" {
		t.Errorf("LastEditedBy = %q, want interviewer", loaded.LastEditedBy)
	}
}

func TestChatDetectsInterviewComplete(t *testing.T) {
	server := fakeAIServer(t, "That covers everything. [INTERVIEW_COMPLETE]")
	defer server.Close()

	svc, db := newTestService(t, server.URL)
	user := createUser(t, db, "a@example.com")
	briefing, _ := svc.Create(user.ID, "Pilot", nil)

	result, err := svc.Chat(context.Background(), user.ID, briefing.ID, "interviewer", "done?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !result.InterviewComplete {
		t.Error("InterviewComplete = false, want true")
	}
	if result.Reply != "That covers everything." {
		t.Errorf("marker not stripped from reply: %q", result.Reply)
	}
}

func TestChatUnknownEmployee(t *testing.T) {
	svc, db := newTestService(t, "http://unused")
	user := createUser(t, db, "a@example.com")
	briefing, _ := svc.Create(user.ID, "Pilot", nil)

	if _, err := svc.Chat(context.Background(), user.ID, briefing.ID, "ghost", "hello"); err == nil {
		t.Error("Chat() with unknown employee succeeded")
	}
}

func TestMarkCompilingRequiresConversation(t *testing.T) {
	svc, db := newTestService(t, "http://unused")
	user := createUser(t, db, "a@example.com")
	briefing, _ := svc.Create(user.ID, "Pilot", nil)

	if _, err := svc.MarkCompiling(user.ID, briefing.ID); !errors.Is(err, ErrNotCompilable) {
		t.Errorf("MarkCompiling() error = %v, want ErrNotCompilable", err)
	}
}

func TestCompileSuccess(t *testing.T) {
	server := fakeAIServer(t, "HOOK: ...\nSECTIONS: ...")
	defer server.Close()

	svc, db := newTestService(t, server.URL)
	user := createUser(t, db, "a@example.com")
	briefing, _ := svc.Create(user.ID, "Pilot", nil)

	if _, err := svc.Chat(context.Background(), user.ID, briefing.ID, "interviewer", "material"); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if _, err := svc.MarkCompiling(user.ID, briefing.ID); err != nil {
		t.Fatalf("MarkCompiling() error = %v", err)
	}

	if err := svc.Compile(context.Background(), briefing.ID); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	loaded, _ := svc.GetForUser(user.ID, briefing.ID)
	if loaded.Status != models.BriefingStatusCompleted {
		t.Errorf("status = %q, want completed", loaded.Status)
	}
	if loaded.CompiledContent["script"] != "HOOK: ...\nSECTIONS: ..." {
		t.Errorf("compiled content = %v", loaded.CompiledContent)
	}
}

func TestCompileFailureRecordsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error": {"message": "model offline"}}`))
	}))
	defer server.Close()

	chatServer := fakeAIServer(t, "some material")
	defer chatServer.Close()

	svc, db := newTestService(t, chatServer.URL)
	user := createUser(t, db, "a@example.com")
	briefing, _ := svc.Create(user.ID, "Pilot", nil)
	if _, err := svc.Chat(context.Background(), user.ID, briefing.ID, "interviewer", "material"); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if _, err := svc.MarkCompiling(user.ID, briefing.ID); err != nil {
		t.Fatalf("MarkCompiling() error = %v", err)
	}

	// Point the service at the broken provider for the compile step
	svc.ai = ai.New(config.AIConfig{BaseURL: server.URL, Model: "test-model"})

	if err := svc.Compile(context.Background(), briefing.ID); err == nil {
		t.Fatal("Compile() succeeded against a broken provider")
	}

	loaded, _ := svc.GetForUser(user.ID, briefing.ID)
	if loaded.Status != models.BriefingStatusCompileFailed {
		t.Errorf("status = %q, want compile_failed", loaded.Status)
	}
	if loaded.CompileError == "" {
		t.Error("CompileError is empty")
	}
}
