package workers

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/briefhub-dev/briefhub/internal/briefings"
	"github.com/briefhub-dev/briefhub/internal/tasks"
)

// HandleCompileBriefing executes a briefing compilation task
func HandleCompileBriefing(ctx context.Context, t *asynq.Task, svc *briefings.Service, logger zerolog.Logger) error {
	payload, err := tasks.ParseTaskPayload(t)
	if err != nil {
		return err
	}
	if payload.BriefingID == "" {
		return errors.New("compile task has no briefing_id")
	}

	logger.Info().Str("briefing_id", payload.BriefingID).Msg("Compiling briefing")

	if err := svc.Compile(ctx, payload.BriefingID); err != nil {
		if errors.Is(err, briefings.ErrNotFound) {
			// Briefing was deleted while queued. Nothing to retry.
			logger.Warn().Str("briefing_id", payload.BriefingID).Msg("Briefing gone, dropping compile task")
			return nil
		}
		// Compile already recorded the failure on the briefing; the task
		// itself is done, retrying would re-bill the provider.
		logger.Error().Err(err).Str("briefing_id", payload.BriefingID).Msg("Compile failed")
		return nil
	}

	return nil
}
