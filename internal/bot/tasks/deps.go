// Package tasks implements the scheduled maintenance tasks of the bot.
package tasks

import (
	"log/slog"

	"github.com/edgard/chusbot/internal/database"
	"github.com/edgard/chusbot/internal/interactionlog"
)

// LogAnalyzer summarises the active interaction log.
type LogAnalyzer interface {
	Analyze(path string) (interactionlog.Analysis, error)
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Log    LogAnalyzer
}
