package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/social-credit-bot/internal/command"
)

// Platform implements command.Platform on top of the Telegram Bot API.
type Platform struct {
	bot    *telebot.Bot
	revoke bool
	log    *slog.Logger
}

// NewPlatform returns a Platform. revoke deletes the messages of expelled
// members as well.
func NewPlatform(tb *telebot.Bot, revoke bool, log *slog.Logger) *Platform {
	if log == nil {
		log = slog.Default()
	}
	return &Platform{bot: tb, revoke: revoke, log: log}
}

func (p *Platform) SendReply(_ context.Context, chatID int64, text string) error {
	if _, err := p.bot.Send(telebot.ChatID(chatID), text, telebot.ModeHTML); err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

func (p *Platform) RemoveMember(ctx context.Context, chatID, userID int64) command.RemovalResult {
	member := &telebot.ChatMember{User: &telebot.User{ID: userID}}

	if err := p.bot.Ban(&telebot.Chat{ID: chatID}, member, p.revoke); err != nil {
		reason := describe(err)
		p.log.WarnContext(ctx, "ban chat member failed",
			slog.Int64("chat_id", chatID),
			slog.Int64("user_id", userID),
			slog.String("reason", reason),
		)
		return command.RemovalFailed(reason, err)
	}

	return command.Removed()
}

func describe(err error) string {
	var apiErr *telebot.Error
	if errors.As(err, &apiErr) && apiErr.Description != "" {
		return apiErr.Description
	}
	return err.Error()
}
