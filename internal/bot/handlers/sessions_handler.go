package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chusbot/internal/database"
)

const (
	sessionsUnavailable = "Session history is not available."
	dbQueryTimeout      = 5 * time.Second
)

// NewSessionsHandler returns a handler for the /sessions command.
func NewSessionsHandler(deps HandlerDeps) bot.HandlerFunc {
	return sessionsHandler{deps}.Handle
}

type sessionsHandler struct {
	deps HandlerDeps
}

func (h sessionsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "sessions")
	msg := update.Message

	log.InfoContext(ctx, "Handling /sessions command", "chat_id", msg.Chat.ID, "user_id", msg.From.ID)

	if h.deps.Store == nil {
		reply(ctx, h.deps.sender(b), log, msg, sessionsUnavailable)
		return
	}

	limit := h.deps.Config.Database.SessionsListLimit
	dbCtx, cancel := context.WithTimeout(ctx, dbQueryTimeout)
	sessions, err := h.deps.Store.RecentSessions(dbCtx, limit)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load recent sessions", "error", err)
		reply(ctx, h.deps.sender(b), log, msg, sessionsUnavailable)
		return
	}

	reply(ctx, h.deps.sender(b), log, msg, formatSessions(sessions, h.deps.Session.ID()))
}

func formatSessions(sessions []database.Session, currentID string) string {
	if len(sessions) == 0 {
		return "No sessions recorded yet."
	}

	var sb strings.Builder
	sb.WriteString("Recent sessions:\n")
	for i, s := range sessions {
		fmt.Fprintf(&sb, "%d. %s - %s (%s), %d interactions",
			i+1, s.StartedAt.Local().Format("2006-01-02 15:04:05"), s.Model, s.Provider, s.InteractionCount)
		if s.ID == currentID {
			sb.WriteString(" [current]")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
