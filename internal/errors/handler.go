package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Proton-105/social-credit-bot/pkg/metrics"
)

// Handler classifies errors, logs and counts them. High and critical errors
// are logged at error level, which the logger forwards to Sentry when it is
// enabled; everything else stays at warn.
type Handler struct {
	log *slog.Logger
}

func NewHandler(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// Handle returns the AppError describing err. Errors that are not AppErrors
// are treated as internal failures.
func (h *Handler) Handle(ctx context.Context, err error) *AppError {
	if err == nil {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	log := slog.Default()
	if h != nil && h.log != nil {
		log = h.log
	}

	var appErr *AppError
	if !errors.As(err, &appErr) || appErr == nil {
		appErr = newInternalError(err)
	}

	attrs := []slog.Attr{
		slog.String("code", appErr.Code),
		slog.String("message", appErr.Message),
		slog.String("severity", string(appErr.Severity)),
	}
	if cause := appErr.Unwrap(); cause != nil {
		attrs = append(attrs, slog.Any("error", cause))
	}

	log.LogAttrs(ctx, levelFor(appErr.Severity), "application error", attrs...)

	metrics.RecordError(appErr.Code, string(appErr.Severity))

	return appErr
}

func levelFor(severity Severity) slog.Level {
	switch severity {
	case SeverityHigh, SeverityCritical:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
