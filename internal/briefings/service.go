// Package briefings implements the briefing workflow: CRUD with per-user
// ownership, AI-employee chat and compilation of the interview into a
// development script.
package briefings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/briefhub-dev/briefhub/internal/ai"
	"github.com/briefhub-dev/briefhub/internal/models"
)

// Marker an employee appends when the interview has gathered enough material
const interviewCompleteMarker = "[INTERVIEW_COMPLETE]"

var (
	ErrNotFound       = errors.New("briefing not found")
	ErrNotOwner       = errors.New("briefing belongs to another user")
	ErrDuplicateTitle = errors.New("a briefing with this title already exists")
	ErrNotCompilable  = errors.New("briefing has no conversation to compile")
)

// Service handles briefing operations
type Service struct {
	db     *gorm.DB
	ai     *ai.Client
	logger zerolog.Logger
}

// NewService creates a new briefings service
func NewService(db *gorm.DB, aiClient *ai.Client, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		ai:     aiClient,
		logger: logger.With().Str("component", "briefings_service").Logger(),
	}
}

// Create starts a new briefing for a user. Titles are unique per owner.
func (s *Service) Create(userID, title string, content models.JSONMap) (*models.Briefing, error) {
	var existing models.Briefing
	err := s.db.Where("user_id = ? AND title = ?", userID, title).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateTitle
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate title: %w", err)
	}

	briefing := &models.Briefing{
		UserID:       userID,
		Title:        title,
		Status:       models.BriefingStatusInProgress,
		Content:      content,
		LastEditedBy: models.SenderUser,
	}
	if err := s.db.Create(briefing).Error; err != nil {
		return nil, fmt.Errorf("failed to create briefing: %w", err)
	}

	s.logger.Info().Str("briefing_id", briefing.ID).Str("user_id", userID).Msg("Briefing created")
	return briefing, nil
}

// ListForUser returns all briefings owned by a user, newest first
func (s *Service) ListForUser(userID string) ([]models.Briefing, error) {
	var briefings []models.Briefing
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&briefings).Error; err != nil {
		return nil, fmt.Errorf("failed to list briefings: %w", err)
	}
	return briefings, nil
}

// GetForUser loads a briefing with its conversation history, enforcing
// ownership. Not-found and not-owner are distinct failures: the second must
// not leak whether the briefing exists to its owner only.
func (s *Service) GetForUser(userID, briefingID string) (*models.Briefing, error) {
	var briefing models.Briefing
	err := s.db.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ?", briefingID).First(&briefing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load briefing: %w", err)
	}

	if briefing.UserID != userID {
		return nil, ErrNotOwner
	}
	return &briefing, nil
}

// Update applies a partial update to a briefing's title and content
func (s *Service) Update(userID, briefingID string, title *string, content models.JSONMap) (*models.Briefing, error) {
	briefing, err := s.GetForUser(userID, briefingID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"last_edited_by": models.SenderUser}
	if title != nil && *title != "" {
		updates["title"] = *title
	}
	if content != nil {
		updates["content"] = content
	}

	if err := s.db.Model(briefing).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update briefing: %w", err)
	}
	return s.GetForUser(userID, briefingID)
}

// Delete removes a briefing and its conversation history
func (s *Service) Delete(userID, briefingID string) error {
	briefing, err := s.GetForUser(userID, briefingID)
	if err != nil {
		return err
	}

	if err := s.db.Where("briefing_id = ?", briefing.ID).Delete(&models.ConversationMessage{}).Error; err != nil {
		return fmt.Errorf("failed to delete conversation history: %w", err)
	}
	if err := s.db.Delete(briefing).Error; err != nil {
		return fmt.Errorf("failed to delete briefing: %w", err)
	}

	s.logger.Info().Str("briefing_id", briefingID).Str("user_id", userID).Msg("Briefing deleted")
	return nil
}

// ChatResult is the outcome of one chat turn with an employee
type ChatResult struct {
	Reply             string
	InterviewComplete bool
}

// Chat sends a user message to an AI employee in the context of a briefing,
// records both sides of the exchange and reports whether the employee
// declared the interview complete.
func (s *Service) Chat(ctx context.Context, userID, briefingID, employeeName, message string) (*ChatResult, error) {
	briefing, err := s.GetForUser(userID, briefingID)
	if err != nil {
		return nil, err
	}

	var employee models.Employee
	if err := s.db.Where("name = ? AND is_active = ?", employeeName, true).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("unknown or inactive employee %q", employeeName)
		}
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}

	// Replay the full history with this employee so the persona keeps context
	prompt := []ai.Message{{Role: "system", Content: employee.SystemPrompt}}
	for _, msg := range briefing.Messages {
		if msg.EmployeeName != employee.Name {
			continue
		}
		role := "assistant"
		if msg.SenderType == models.SenderUser {
			role = "user"
		}
		prompt = append(prompt, ai.Message{Role: role, Content: msg.MessageContent})
	}
	prompt = append(prompt, ai.Message{Role: "user", Content: message})

	reply, err := s.ai.Complete(ctx, employee.Model, prompt)
	if err != nil {
		return nil, fmt.Errorf("employee %q failed to answer: %w", employeeName, err)
	}

	complete := strings.Contains(reply, interviewCompleteMarker)
	reply = strings.TrimSpace(strings.ReplaceAll(reply, interviewCompleteMarker, ""))

	turns := []models.ConversationMessage{
		{BriefingID: briefing.ID, EmployeeName: employee.Name, SenderType: models.SenderUser, MessageContent: message},
		{BriefingID: briefing.ID, EmployeeName: employee.Name, SenderType: models.SenderEmployee, MessageContent: reply},
	}
	if err := s.db.Create(&turns).Error; err != nil {
		return nil, fmt.Errorf("failed to record conversation: %w", err)
	}

	if err := s.db.Model(briefing).Update("last_edited_by", employee.Name).Error; err != nil {
		return nil, fmt.Errorf("failed to touch briefing: %w", err)
	}

	return &ChatResult{Reply: reply, InterviewComplete: complete}, nil
}

// MarkCompiling transitions a briefing into the compiling state before its
// compile task is enqueued
func (s *Service) MarkCompiling(userID, briefingID string) (*models.Briefing, error) {
	briefing, err := s.GetForUser(userID, briefingID)
	if err != nil {
		return nil, err
	}
	if len(briefing.Messages) == 0 {
		return nil, ErrNotCompilable
	}

	updates := map[string]any{
		"status":        models.BriefingStatusCompiling,
		"compile_error": "",
	}
	if err := s.db.Model(briefing).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to mark briefing compiling: %w", err)
	}
	briefing.Status = models.BriefingStatusCompiling
	return briefing, nil
}

// Compile turns the full conversation history into a structured development
// script via the scriptwriter persona. Called by the worker, not the API.
func (s *Service) Compile(ctx context.Context, briefingID string) error {
	var briefing models.Briefing
	err := s.db.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ?", briefingID).First(&briefing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load briefing: %w", err)
	}

	compiled, err := s.compileContent(ctx, &briefing)
	if err != nil {
		s.logger.Error().Err(err).Str("briefing_id", briefingID).Msg("Briefing compilation failed")
		if dbErr := s.db.Model(&briefing).Updates(map[string]any{
			"status":        models.BriefingStatusCompileFailed,
			"compile_error": err.Error(),
		}).Error; dbErr != nil {
			return fmt.Errorf("failed to record compile failure: %w", dbErr)
		}
		return err
	}

	if err := s.db.Model(&briefing).Updates(map[string]any{
		"status":           models.BriefingStatusCompleted,
		"compiled_content": compiled,
		"compile_error":    "",
	}).Error; err != nil {
		return fmt.Errorf("failed to store compiled content: %w", err)
	}

	s.logger.Info().Str("briefing_id", briefingID).Msg("Briefing compiled")
	return nil
}

func (s *Service) compileContent(ctx context.Context, briefing *models.Briefing) (models.JSONMap, error) {
	var scriptwriter models.Employee
	if err := s.db.Where("name = ?", "scriptwriter").First(&scriptwriter).Error; err != nil {
		return nil, fmt.Errorf("scriptwriter persona missing: %w", err)
	}

	var transcript strings.Builder
	for _, msg := range briefing.Messages {
		sender := msg.SenderType
		if msg.SenderType == models.SenderEmployee {
			sender = msg.EmployeeName
		}
		fmt.Fprintf(&transcript, "%s: %s\n", sender, msg.MessageContent)
	}

	prompt := []ai.Message{
		{Role: "system", Content: scriptwriter.SystemPrompt},
		{Role: "user", Content: fmt.Sprintf(
			"Compile the following briefing interview titled %q into a development script. Transcript:\n\n%s",
			briefing.Title, transcript.String())},
	}

	script, err := s.ai.Complete(ctx, scriptwriter.Model, prompt)
	if err != nil {
		return nil, err
	}

	return models.JSONMap{
		"title":  briefing.Title,
		"script": script,
	}, nil
}
