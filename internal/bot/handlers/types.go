// Package handlers holds the telebot handler types and the credit command
// handlers built on them.
package handlers

import (
	"context"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/social-credit-bot/pkg/logger"
)

// Handler processes bot commands.
type Handler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// Keys under which the router and middlewares share per-update values
// through telebot.Context.Set.
const (
	ContextKey = "request_ctx"
	CommandKey = "command"
)

// RequestContext returns the context stored for the update, or
// context.Background when none was set.
func RequestContext(c telebot.Context) context.Context {
	if c != nil {
		if ctx, ok := c.Get(ContextKey).(context.Context); ok && ctx != nil {
			return ctx
		}
	}
	return context.Background()
}

// EnsureRequestContext returns the context stored for the update. When none
// is stored yet it creates one carrying a fresh correlation id and stores it.
func EnsureRequestContext(c telebot.Context) context.Context {
	if c == nil {
		return logger.WithCorrelationID(context.Background(), logger.NewCorrelationID())
	}
	if ctx, ok := c.Get(ContextKey).(context.Context); ok && ctx != nil {
		return ctx
	}

	ctx := logger.WithCorrelationID(context.Background(), logger.NewCorrelationID())
	c.Set(ContextKey, ctx)
	return ctx
}

// CommandName returns the command label stored by the router.
func CommandName(c telebot.Context) string {
	if c != nil {
		if name, ok := c.Get(CommandKey).(string); ok && name != "" {
			return name
		}
	}
	return "unknown"
}
