package workers

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/briefhub-dev/briefhub/internal/ai"
	"github.com/briefhub-dev/briefhub/internal/models"
	"github.com/briefhub-dev/briefhub/internal/tasks"
)

// HandleAIHealthCheck pings the AI provider for every active employee and
// logs the result. Failures are visible in logs and in the on-demand
// connection test endpoint; nothing is persisted.
func HandleAIHealthCheck(ctx context.Context, t *asynq.Task, db *gorm.DB, aiClient *ai.Client, logger zerolog.Logger) error {
	var roster []models.Employee
	if err := db.Where("is_active = ?", true).Find(&roster).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to load employee roster")
		return err
	}

	for _, employee := range roster {
		checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := aiClient.Ping(checkCtx, employee.Model)
		cancel()

		if err != nil {
			logger.Warn().Err(err).Str("employee", employee.Name).Msg("AI connection check failed")
			continue
		}
		logger.Debug().Str("employee", employee.Name).Msg("AI connection OK")
	}

	return nil
}

// StartHealthCheckScheduler runs a periodic check (every minute) and enqueues
// an AI health check task whenever the configured cron schedule is due
func StartHealthCheckScheduler(client *asynq.Client, db *gorm.DB, logger zerolog.Logger) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	// Run immediately on startup, then every minute
	checkAndEnqueueHealthCheck(client, db, logger)

	for range ticker.C {
		checkAndEnqueueHealthCheck(client, db, logger)
	}
}

func checkAndEnqueueHealthCheck(client *asynq.Client, db *gorm.DB, logger zerolog.Logger) {
	// Load the singleton config
	var config models.Config
	err := db.First(&config).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.Debug().Msg("No config found - skipping health check")
			return
		}
		logger.Error().Err(err).Msg("Failed to query config for health check")
		return
	}

	if config.HealthCheckSchedule == "" {
		logger.Debug().Msg("No health check schedule configured")
		return
	}

	if config.NextHealthCheckAt != nil && config.NextHealthCheckAt.After(time.Now()) {
		return
	}

	task, err := tasks.NewAIHealthCheckTask()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create health check task")
		return
	}
	if _, err := client.Enqueue(task, asynq.Queue("low")); err != nil {
		logger.Error().Err(err).Msg("Failed to enqueue health check task")
		return
	}

	now := time.Now()
	next := calculateNextCheckTime(config.HealthCheckSchedule, now)
	updates := map[string]any{"last_health_check_at": now}
	if next != nil {
		updates["next_health_check_at"] = next
	}
	if err := db.Model(&config).Updates(updates).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to record health check schedule")
	}

	logger.Info().Str("schedule", config.HealthCheckSchedule).Msg("AI health check enqueued")
}

// calculateNextCheckTime parses the cron schedule and returns the next fire
// time after from, or nil if the expression is invalid
func calculateNextCheckTime(schedule string, from time.Time) *time.Time {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	spec, err := parser.Parse(schedule)
	if err != nil {
		return nil
	}
	next := spec.Next(from)
	return &next
}
