package bot

import (
	"log/slog"
	"strings"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/social-credit-bot/internal/bot/handlers"
	"github.com/Proton-105/social-credit-bot/internal/command"
)

// Router dispatches command messages through the middleware chain.
//
// Command names are matched here rather than by telebot, whose command
// pattern only accepts ASCII word characters.
type Router struct {
	mu          sync.RWMutex
	commands    map[string]route
	middlewares []handlers.Middleware
	botName     string
	log         *slog.Logger
}

type route struct {
	label   string
	handler handlers.Handler
}

// NewRouter builds a Router with empty registries.
func NewRouter(log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		commands:    make(map[string]route),
		middlewares: make([]handlers.Middleware, 0),
		log:         log,
	}
}

// RegisterCommand registers a handler for cmd.
func (r *Router) RegisterCommand(cmd command.Command, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd.Name()] = route{label: cmd.String(), handler: h}
}

// Use appends a middleware to the chain.
func (r *Router) Use(mw handlers.Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw)
}

// SetBotName sets the username used to accept "/command@botname".
func (r *Router) SetBotName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.botName = strings.TrimPrefix(name, "@")
}

// Route directs the incoming update to the matching command handler.
// Messages that are not known commands are ignored.
func (r *Router) Route(c telebot.Context) error {
	if c == nil {
		return nil
	}

	name, ok := r.commandName(c.Text())
	if !ok {
		return nil
	}

	r.mu.RLock()
	rt, found := r.commands[name]
	r.mu.RUnlock()
	if !found || rt.handler == nil {
		return nil
	}

	c.Set(handlers.CommandKey, rt.label)

	return r.executeHandler(rt.handler, c)
}

// commandName extracts the command name from text. A command addressed to
// another bot is not ours.
func (r *Router) commandName(text string) (string, bool) {
	token, _ := command.SplitCommand(text)
	if !strings.HasPrefix(token, "/") {
		return "", false
	}

	name := strings.TrimPrefix(token, "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		addressee := name[at+1:]
		name = name[:at]

		r.mu.RLock()
		botName := r.botName
		r.mu.RUnlock()

		if botName == "" || !strings.EqualFold(addressee, botName) {
			r.log.Debug("command addressed to another bot", slog.String("addressee", addressee))
			return "", false
		}
	}

	return name, name != ""
}

func (r *Router) executeHandler(h handlers.Handler, c telebot.Context) error {
	wrapped := r.applyMiddlewares(h)
	if wrapped == nil {
		return nil
	}
	return wrapped(c)
}

// applyMiddlewares wraps the handler with all registered middlewares.
func (r *Router) applyMiddlewares(h handlers.Handler) handlers.Handler {
	middlewares := r.middlewaresSnapshot()
	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped
}

func (r *Router) middlewaresSnapshot() []handlers.Middleware {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.middlewares) == 0 {
		return nil
	}

	snapshot := make([]handlers.Middleware, len(r.middlewares))
	copy(snapshot, r.middlewares)
	return snapshot
}
