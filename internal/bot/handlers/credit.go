package handlers

import (
	"context"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/social-credit-bot/internal/command"
	"github.com/Proton-105/social-credit-bot/internal/domain"
)

// Executor runs a parsed command. *command.Service implements it.
type Executor interface {
	Execute(ctx context.Context, cmd command.Command, inv domain.Invocation) error
}

// NewCommandHandler adapts cmd to a telebot handler.
func NewCommandHandler(exec Executor, cmd command.Command) Handler {
	return func(c telebot.Context) error {
		msg := c.Message()
		if msg == nil {
			return nil
		}

		return exec.Execute(RequestContext(c), cmd, InvocationFromMessage(msg))
	}
}

// InvocationFromMessage builds the invocation for a command message.
func InvocationFromMessage(msg *telebot.Message) domain.Invocation {
	inv := domain.Invocation{
		Text:      msg.Text,
		MessageID: msg.ID,
	}
	if msg.Chat != nil {
		inv.ChatID = msg.Chat.ID
	}
	if msg.Sender != nil {
		inv.Sender = UserFromTelegram(msg.Sender)
	}
	if msg.ReplyTo != nil && msg.ReplyTo.Sender != nil {
		target := UserFromTelegram(msg.ReplyTo.Sender)
		inv.ReplyTarget = &target
	}

	return inv
}

// UserFromTelegram converts a platform user. The display name is the full
// name: first and last name joined by a space.
func UserFromTelegram(u *telebot.User) domain.User {
	return domain.User{
		ID:          u.ID,
		DisplayName: strings.TrimSpace(u.FirstName + " " + u.LastName),
		Handle:      u.Username,
		Verified:    true,
	}
}
