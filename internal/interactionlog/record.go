package interactionlog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Event types written in the event_type field of every record.
const (
	EventSessionStart = "session_start"
	EventInteraction  = "interaction"
)

// UnknownBotID marks a BotInfo captured after the identity lookup failed.
const UnknownBotID BotID = "unknown"

// BotID is the platform id of the bot. Numeric ids are written as JSON
// numbers; anything else, such as UnknownBotID, as a string.
type BotID string

// NewBotID formats a numeric platform id.
func NewBotID(id int64) BotID {
	return BotID(strconv.FormatInt(id, 10))
}

func (id BotID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *BotID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = BotID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("bot_id must be a number or a string: %w", err)
	}
	*id = BotID(s)
	return nil
}

// BotInfo is the identity snapshot written into every record of one log file.
// When the platform lookup fails only BotID, Model and Error are set.
type BotInfo struct {
	BotID          BotID  `json:"bot_id"`
	BotUsername    string `json:"bot_username,omitempty"`
	BotName        string `json:"bot_name,omitempty"`
	IsBot          *bool  `json:"is_bot,omitempty"`
	SupportsInline *bool  `json:"supports_inline,omitempty"`
	Model          string `json:"model"`
	Version        string `json:"version,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Degraded reports whether the snapshot is the error-tagged variant.
func (b *BotInfo) Degraded() bool {
	return b != nil && b.BotID == UnknownBotID
}

// SessionStart is the first record of a session.
type SessionStart struct {
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id,omitempty"`
	BotInfo   *BotInfo  `json:"bot_info"`
}

// Interaction records one inbound message and the reply sent for it.
type Interaction struct {
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	SessionID   string    `json:"session_id,omitempty"`
	BotInfo     *BotInfo  `json:"bot_info"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	Message     string    `json:"message"`
	BotResponse string    `json:"bot_response"`
	Persona     string    `json:"persona"`
}
