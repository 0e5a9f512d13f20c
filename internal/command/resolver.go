package command

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/Proton-105/social-credit-bot/internal/domain"
	"github.com/Proton-105/social-credit-bot/internal/members"
)

// Resolver picks the user a command applies to.
type Resolver struct {
	directory members.Directory
	log       *slog.Logger
}

// NewResolver returns a resolver. directory may be nil, in which case every
// mention becomes a placeholder.
func NewResolver(directory members.Directory, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{directory: directory, log: log}
}

// Resolve returns, in order of precedence: the author of the replied-to
// message, the user named by a leading @mention in args, or the sender.
func (r *Resolver) Resolve(ctx context.Context, inv domain.Invocation, args string) domain.User {
	if inv.ReplyTarget != nil {
		return *inv.ReplyTarget
	}

	if handle, ok := mentionedHandle(args); ok {
		return r.byHandle(ctx, handle)
	}

	return inv.Sender
}

func (r *Resolver) byHandle(ctx context.Context, handle string) domain.User {
	if r.directory != nil {
		user, err := r.directory.Lookup(ctx, handle)
		if err != nil {
			r.log.WarnContext(ctx, "member lookup failed", slog.String("handle", handle), slog.Any("error", err))
		} else if user != nil {
			return *user
		}
	}

	return Placeholder(handle)
}

// mentionedHandle extracts the handle from the first word of args when it is
// an @mention. A word made only of '@' is not a mention.
func mentionedHandle(args string) (string, bool) {
	fields := strings.Fields(args)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "@") {
		return "", false
	}

	handle := strings.TrimLeft(fields[0], "@")
	if handle == "" {
		return "", false
	}

	return handle, true
}

// Placeholder synthesizes an unverified user for a handle the bot has never
// seen. The id is stable for the handle and always negative, so it cannot
// collide with a platform user id.
func Placeholder(handle string) domain.User {
	id := -int64(xxhash.Sum64String(handle)>>1) - 1

	return domain.User{
		ID:          id,
		DisplayName: handle,
		Handle:      handle,
		Verified:    false,
	}
}
