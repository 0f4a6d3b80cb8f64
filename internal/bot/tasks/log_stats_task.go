package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/edgard/chusbot/internal/interactionlog"
)

// newLogStatsTask creates a task that logs a summary of the active
// interaction log file.
func newLogStatsTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "log_stats")

	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := deps.Log.Analyze("")
		if errors.Is(err, interactionlog.ErrLogNotFound) {
			log.InfoContext(ctx, "No interactions recorded yet in this session")
			return nil
		}
		if err != nil {
			return fmt.Errorf("log analysis failed: %w", err)
		}

		log.InfoContext(ctx, "Interaction log statistics",
			"path", res.Path,
			"total_interactions", res.TotalInteractions,
			"unique_users", len(res.Users),
			"personas_used", res.PersonasUsed,
			"session_starts", res.SessionStarts,
			"malformed_lines", res.MalformedLines,
		)
		if res.MalformedLines > 0 {
			log.WarnContext(ctx, "Interaction log contains malformed lines", "path", res.Path, "count", res.MalformedLines)
		}
		return nil
	}
}
