package database

import (
	"database/sql"
	"time"
)

// Session is one run of the bot: the log file it writes to and how much
// traffic it has handled so far.
type Session struct {
	ID                string       `db:"id"`
	StartedAt         time.Time    `db:"started_at"`
	LogFile           string       `db:"log_file"`
	BotUsername       string       `db:"bot_username"`
	Model             string       `db:"model"`
	Provider          string       `db:"provider"`
	InteractionCount  int          `db:"interaction_count"`
	LastInteractionAt sql.NullTime `db:"last_interaction_at"`
}
