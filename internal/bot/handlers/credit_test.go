package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/social-credit-bot/internal/command"
	"github.com/Proton-105/social-credit-bot/internal/domain"
)

type fakeContext struct {
	telebot.Context
	msg    *telebot.Message
	values map[string]any
}

func (c *fakeContext) Message() *telebot.Message { return c.msg }

func (c *fakeContext) Get(key string) any { return c.values[key] }

type recordingExecutor struct {
	ctx context.Context
	cmd command.Command
	inv domain.Invocation
}

func (e *recordingExecutor) Execute(ctx context.Context, cmd command.Command, inv domain.Invocation) error {
	e.ctx, e.cmd, e.inv = ctx, cmd, inv
	return nil
}

type ctxKey struct{}

func TestInvocationFromMessage(t *testing.T) {
	msg := &telebot.Message{
		ID:     7,
		Text:   "/изгнать",
		Chat:   &telebot.Chat{ID: -100},
		Sender: &telebot.User{ID: 1, FirstName: "Albert", LastName: "Zhdanov", Username: "Zhdanov_Albert"},
		ReplyTo: &telebot.Message{
			Sender: &telebot.User{ID: 2, FirstName: "Ivan"},
		},
	}

	inv := InvocationFromMessage(msg)
	assert.Equal(t, "/изгнать", inv.Text)
	assert.Equal(t, int64(-100), inv.ChatID)
	assert.Equal(t, 7, inv.MessageID)
	assert.Equal(t, domain.User{ID: 1, DisplayName: "Albert Zhdanov", Handle: "Zhdanov_Albert", Verified: true}, inv.Sender)
	require.NotNil(t, inv.ReplyTarget)
	assert.Equal(t, domain.User{ID: 2, DisplayName: "Ivan", Verified: true}, *inv.ReplyTarget)
}

func TestInvocationFromMessage_NoReply(t *testing.T) {
	inv := InvocationFromMessage(&telebot.Message{Text: "/getsocialcredit"})
	assert.Nil(t, inv.ReplyTarget)
	assert.Equal(t, domain.User{}, inv.Sender)
}

func TestNewCommandHandler(t *testing.T) {
	exec := &recordingExecutor{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")
	c := &fakeContext{
		msg:    &telebot.Message{Text: "/getsocialcredit", Chat: &telebot.Chat{ID: 5}},
		values: map[string]any{ContextKey: ctx},
	}

	require.NoError(t, NewCommandHandler(exec, command.Query)(c))
	assert.Equal(t, command.Query, exec.cmd)
	assert.Equal(t, int64(5), exec.inv.ChatID)
	assert.Equal(t, "marker", exec.ctx.Value(ctxKey{}))
}

func TestContextHelpers_Defaults(t *testing.T) {
	c := &fakeContext{values: map[string]any{}}
	assert.NotNil(t, RequestContext(c))
	assert.NotNil(t, RequestContext(nil))
	assert.Equal(t, "unknown", CommandName(c))

	c.values[CommandKey] = "expel"
	assert.Equal(t, "expel", CommandName(c))
}
