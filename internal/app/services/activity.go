package services

import (
	"context"

	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/app/repositories"
	"github.com/rs/zerolog"
)

// recordActivity appends entry to the activity log. A failed write is logged
// and does not fail the operation that already succeeded.
func recordActivity(ctx context.Context, repo repositories.IActivityLogRepository, logger zerolog.Logger, entry *models.ActivityLog) {
	if repo == nil {
		return
	}
	if err := repo.Create(ctx, entry); err != nil {
		logger.Warn().Err(err).Str("action", entry.Action).Int64("entityID", entry.EntityID).Msg("Failed to record activity")
	}
}

func actorRef(actor models.Actor) *int64 {
	id := actor.ID
	return &id
}
