package handlers

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chusbot/internal/config"
	"github.com/edgard/chusbot/internal/database"
	"github.com/edgard/chusbot/internal/generation"
	"github.com/edgard/chusbot/internal/interactionlog"
	"github.com/edgard/chusbot/internal/persona"
)

// Sender is the subset of the Telegram client the handlers use. *bot.Bot
// satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

// InteractionLog records exchanges and exposes the session snapshot.
type InteractionLog interface {
	RecordInteraction(userID int64, username, message, botResponse, persona string) error
	Path() string
	BotInfo() *interactionlog.BotInfo
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Personas  *persona.Store
	Log       InteractionLog
	Generator generation.Generator
	Session   *Session
	// Store is optional; without it /sessions reports that history is off.
	Store database.Store
	// Sender overrides the *bot.Bot passed to handlers when set.
	Sender Sender
}

func (d HandlerDeps) sender(b *bot.Bot) Sender {
	if d.Sender != nil {
		return d.Sender
	}
	return b
}

// Session is the state of the running bot shared by all handlers.
type Session struct {
	id string

	mu      sync.Mutex
	persona string
}

// NewSession starts a session with the default persona.
func NewSession(id string) *Session {
	return &Session{id: id, persona: persona.DefaultID}
}

// ID returns the session identifier, empty if the session is not indexed.
func (s *Session) ID() string {
	return s.id
}

// Persona returns the id of the persona used for new messages.
func (s *Session) Persona() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persona
}

// SetPersona switches the persona for subsequent messages.
func (s *Session) SetPersona(id string) {
	s.mu.Lock()
	s.persona = id
	s.mu.Unlock()
}
