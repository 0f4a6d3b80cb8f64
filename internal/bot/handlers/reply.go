package handlers

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	// maxMessageLength is Telegram's limit for a single text message.
	maxMessageLength   = 4096
	sendMessageTimeout = 10 * time.Second
	emptyReplyText     = "I don't have a response at this time."
)

// reply answers msg with text, splitting it into several messages when it is
// longer than Telegram allows. Only the first part quotes msg.
func reply(ctx context.Context, s Sender, log *slog.Logger, msg *models.Message, text string) {
	if strings.TrimSpace(text) == "" {
		log.WarnContext(ctx, "Empty text provided for reply", "chat_id", msg.Chat.ID)
		text = emptyReplyText
	}

	for i, part := range splitMessage(text, maxMessageLength) {
		params := &bot.SendMessageParams{ChatID: msg.Chat.ID, Text: part}
		if i == 0 {
			params.ReplyParameters = &models.ReplyParameters{MessageID: msg.ID}
		}

		sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
		sent, err := s.SendMessage(sendCtx, params)
		cancel()
		if err != nil {
			log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", msg.Chat.ID, "part", i)
			return
		}
		if sent != nil {
			log.DebugContext(ctx, "Sent reply", "chat_id", msg.Chat.ID, "message_id", sent.ID, "part", i)
		}
	}
}

// splitMessage cuts text into chunks of at most limit runes, preferring to
// break after a newline.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit - 1; i > limit/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

// commandArgument returns the text after the leading command token, trimmed.
func commandArgument(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	idx := strings.IndexFunc(text, func(r rune) bool { return r == ' ' || r == '\n' || r == '\t' })
	if idx == -1 {
		return ""
	}
	return strings.TrimSpace(text[idx:])
}
