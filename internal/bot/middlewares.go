package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/social-credit-bot/internal/bot/handlers"
	apperrors "github.com/Proton-105/social-credit-bot/internal/errors"
	"github.com/Proton-105/social-credit-bot/internal/i18n"
	"github.com/Proton-105/social-credit-bot/internal/idempotency"
	"github.com/Proton-105/social-credit-bot/internal/members"
	"github.com/Proton-105/social-credit-bot/pkg/metrics"
)

// RecoveryMiddleware catches panics, reports them via the centralized handler, and notifies the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *apperrors.Handler, messages i18n.Translator) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					ctx := handlers.RequestContext(c)
					log.WarnContext(ctx, "panic recovered in handler", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))

					appErr := errHandler.Handle(ctx, fmt.Errorf("panic recovered: %v", r))
					if c != nil {
						if sendErr := c.Send(messages.Tf(appErr.MessageKey, appErr.Args...)); sendErr != nil {
							log.ErrorContext(ctx, "failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware reports handler failures and replies with the
// message the error maps to.
func ErrorHandlingMiddleware(errHandler *apperrors.Handler, messages i18n.Translator, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			ctx := handlers.RequestContext(c)
			appErr := errHandler.Handle(ctx, err)

			if c != nil {
				if sendErr := c.Send(messages.Tf(appErr.MessageKey, appErr.Args...)); sendErr != nil {
					log.ErrorContext(ctx, "failed to send error reply", slog.Any("error", sendErr))
				}
			}

			return nil
		}
	}
}

// LoggingMiddleware assigns a correlation id to the update and logs its
// start and end.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			ctx := handlers.EnsureRequestContext(c)

			start := time.Now()
			userID := int64(0)
			if sender := c.Sender(); sender != nil {
				userID = sender.ID
			}
			chatID := int64(0)
			if chat := c.Chat(); chat != nil {
				chatID = chat.ID
			}
			command := handlers.CommandName(c)

			log.InfoContext(ctx, "handling update",
				slog.Int64("user_id", userID),
				slog.Int64("chat_id", chatID),
				slog.String("command", command),
			)
			err := next(c)
			log.InfoContext(ctx, "handled update",
				slog.Int64("user_id", userID),
				slog.String("command", command),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

// IdempotencyMiddleware skips command messages that were already handled
// within ttl. When the guard fails the update is handled anyway.
func IdempotencyMiddleware(guard idempotency.Guard, ttl time.Duration, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			msg := c.Message()
			if guard == nil || ttl <= 0 || msg == nil || msg.Chat == nil {
				return next(c)
			}

			ctx := handlers.RequestContext(c)
			claimed, err := guard.Claim(ctx, idempotency.MessageKey(msg.Chat.ID, msg.ID), ttl)
			if err != nil {
				log.WarnContext(ctx, "idempotency check failed, handling update anyway", slog.Any("error", err))
				return next(c)
			}
			if !claimed {
				log.InfoContext(ctx, "duplicate update skipped",
					slog.Int64("chat_id", msg.Chat.ID),
					slog.Int("message_id", msg.ID),
				)
				return nil
			}

			return next(c)
		}
	}
}

// MetricsMiddleware measures execution time and status for bot handlers.
func MetricsMiddleware(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordCommand(handlers.CommandName(c), status, time.Since(start))

		return err
	}
}

// RecordMembers stores the sender and the replied-to author of every
// handled update in the member directory. Failures are logged and never
// block the update.
func RecordMembers(directory members.Directory, log *slog.Logger) telebot.MiddlewareFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if directory != nil {
				if msg := c.Message(); msg != nil {
					ctx := handlers.EnsureRequestContext(c)
					remember(ctx, directory, log, msg.Sender)
					if msg.ReplyTo != nil {
						remember(ctx, directory, log, msg.ReplyTo.Sender)
					}
				}
			}

			return next(c)
		}
	}
}

func remember(ctx context.Context, directory members.Directory, log *slog.Logger, u *telebot.User) {
	if u == nil || u.IsBot || u.Username == "" {
		return
	}

	if err := directory.Remember(ctx, handlers.UserFromTelegram(u)); err != nil {
		log.WarnContext(ctx, "failed to remember member", slog.Int64("user_id", u.ID), slog.Any("error", err))
	}
}
