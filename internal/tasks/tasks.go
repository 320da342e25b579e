package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	// Briefing compilation (enqueued by the API, executed by the worker)
	TypeCompileBriefing = "briefing:compile"

	// AI provider connection check for the whole employee roster
	TypeAIHealthCheck = "employees:health_check"
)

// TaskPayload is the common payload for all tasks
type TaskPayload struct {
	BriefingID string `json:"briefing_id,omitempty"`
}

// NewCompileBriefingTask creates a task to compile a briefing's conversation
// into a development script
func NewCompileBriefingTask(briefingID string) (*asynq.Task, error) {
	payload, err := json.Marshal(TaskPayload{
		BriefingID: briefingID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeCompileBriefing, payload), nil
}

// NewAIHealthCheckTask creates a task that pings the AI provider for every
// active employee persona
func NewAIHealthCheckTask() (*asynq.Task, error) {
	payload, err := json.Marshal(TaskPayload{})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeAIHealthCheck, payload), nil
}

// ParseTaskPayload parses task payload from an Asynq task
func ParseTaskPayload(task *asynq.Task) (TaskPayload, error) {
	var payload TaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}
