package command

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sync/atomic"

	"github.com/Proton-105/social-credit-bot/internal/credit"
	"github.com/Proton-105/social-credit-bot/internal/domain"
	apperrors "github.com/Proton-105/social-credit-bot/internal/errors"
	"github.com/Proton-105/social-credit-bot/internal/i18n"
	"github.com/Proton-105/social-credit-bot/pkg/metrics"
)

const (
	keyAdded    = "credit.added"
	keyRemoved  = "credit.removed"
	keyBalance  = "credit.balance"
	keyExpelled = "credit.expelled"
)

// Options tunes the moderation behavior of the Service.
type Options struct {
	// ExpelUnverified lets expel target users known only by a mention.
	ExpelUnverified bool
}

// Service executes commands against the score store and the platform.
// Failures are returned as *apperrors.AppError for the caller to report.
type Service struct {
	store    credit.Store
	resolver *Resolver
	gate     *Gate
	platform Platform
	messages i18n.Translator
	log      *slog.Logger

	expelUnverified atomic.Bool
}

func NewService(
	store credit.Store,
	resolver *Resolver,
	gate *Gate,
	platform Platform,
	messages i18n.Translator,
	opts Options,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}

	s := &Service{
		store:    store,
		resolver: resolver,
		gate:     gate,
		platform: platform,
		messages: messages,
		log:      log,
	}
	s.expelUnverified.Store(opts.ExpelUnverified)

	return s
}

// SetOptions swaps the moderation options at runtime.
func (s *Service) SetOptions(opts Options) {
	s.expelUnverified.Store(opts.ExpelUnverified)
}

// Execute runs cmd for the invocation.
func (s *Service) Execute(ctx context.Context, cmd Command, inv domain.Invocation) error {
	if cmd.Privileged() && !s.gate.Allowed(inv.Sender) {
		return apperrors.NewAccessDeniedError(inv.Sender.Handle)
	}

	_, trailing := SplitCommand(inv.Text)

	switch cmd {
	case Increment:
		return s.adjust(ctx, cmd, inv, trailing, 1)
	case Decrement:
		return s.adjust(ctx, cmd, inv, trailing, -1)
	case Query:
		return s.query(ctx, inv, trailing)
	case Expel:
		return s.expel(ctx, inv, trailing)
	default:
		return fmt.Errorf("unknown command %d", int(cmd))
	}
}

func (s *Service) adjust(ctx context.Context, cmd Command, inv domain.Invocation, trailing string, sign int64) error {
	amount, remainder := int64(1), trailing
	if cmd.ParsesAmount() {
		amount, remainder = ParseAmount(trailing)
	}

	target := s.resolver.Resolve(ctx, inv, remainder)
	// Resolve falls back to the sender, so this only fires for updates
	// that carry no sender at all.
	if target.ID == 0 {
		return apperrors.NewUnresolvableTargetError(cmd.UsageKey())
	}

	balance, err := s.store.Add(ctx, target.ID, sign*amount)
	if err != nil {
		return apperrors.NewStoreError(err)
	}
	metrics.RecordAdjustment(cmd.String())

	s.log.InfoContext(ctx, "social credit adjusted",
		slog.String("command", cmd.String()),
		slog.Int64("target_id", target.ID),
		slog.Int64("amount", amount),
		slog.Int64("balance", balance),
	)

	key := keyAdded
	if sign < 0 {
		key = keyRemoved
	}

	return s.reply(ctx, inv.ChatID, s.messages.Tf(key, html.EscapeString(target.Name()), amount, balance))
}

func (s *Service) query(ctx context.Context, inv domain.Invocation, trailing string) error {
	target := s.resolver.Resolve(ctx, inv, trailing)
	if target.ID == 0 {
		return apperrors.NewUnresolvableTargetError(Query.UsageKey())
	}

	balance, err := s.store.Get(ctx, target.ID)
	if err != nil {
		return apperrors.NewStoreError(err)
	}

	return s.reply(ctx, inv.ChatID, s.messages.Tf(keyBalance, html.EscapeString(target.Name()), balance))
}

func (s *Service) expel(ctx context.Context, inv domain.Invocation, trailing string) error {
	target := s.resolver.Resolve(ctx, inv, trailing)
	if target.ID == 0 {
		return apperrors.NewUnresolvableTargetError(Expel.UsageKey())
	}

	if !target.Verified && !s.expelUnverified.Load() {
		metrics.RecordExpel("refused")
		return apperrors.NewUnverifiedTargetError(html.EscapeString(target.Handle))
	}

	result := s.platform.RemoveMember(ctx, inv.ChatID, target.ID)
	switch {
	case result.Removed:
		metrics.RecordExpel("removed")
		s.log.InfoContext(ctx, "member expelled",
			slog.Int64("chat_id", inv.ChatID),
			slog.Int64("target_id", target.ID),
		)
		return s.reply(ctx, inv.ChatID, s.messages.Tf(keyExpelled, html.EscapeString(target.Name())))
	default:
		metrics.RecordExpel("failed")
		return apperrors.NewPlatformActionError("expel", result.Reason, result.Err)
	}
}

func (s *Service) reply(ctx context.Context, chatID int64, text string) error {
	if err := s.platform.SendReply(ctx, chatID, text); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}
