// Package command resolves, authorizes and executes the social credit
// commands.
package command

// Command is one of the commands the bot understands.
type Command int

const (
	Unknown Command = iota
	Increment
	Decrement
	Query
	Expel
)

type descriptor struct {
	name         string
	label        string
	privileged   bool
	parsesAmount bool
	usageKey     string
}

var descriptors = map[Command]descriptor{
	Increment: {name: "прибавить_social_credit", label: "increment", privileged: true, parsesAmount: true, usageKey: "usage.increment"},
	Decrement: {name: "убавить_social_credit", label: "decrement", privileged: true, parsesAmount: true, usageKey: "usage.decrement"},
	Query:     {name: "getsocialcredit", label: "query", usageKey: "usage.query"},
	Expel:     {name: "изгнать", label: "expel", privileged: true, usageKey: "usage.expel"},
}

var byName = func() map[string]Command {
	m := make(map[string]Command, len(descriptors))
	for cmd, s := range descriptors {
		m[s.name] = cmd
	}
	return m
}()

// Lookup maps an exact command name (without the leading slash) to a Command.
func Lookup(name string) (Command, bool) {
	cmd, ok := byName[name]
	return cmd, ok
}

// All returns every known command in declaration order.
func All() []Command {
	return []Command{Increment, Decrement, Query, Expel}
}

// Name is the chat command name without the leading slash.
func (c Command) Name() string { return descriptors[c].name }

// Privileged reports whether the command requires the allow-listed handle.
func (c Command) Privileged() bool { return descriptors[c].privileged }

// ParsesAmount reports whether the command takes a leading numeric amount.
func (c Command) ParsesAmount() bool { return descriptors[c].parsesAmount }

// UsageKey is the message key of the usage hint.
func (c Command) UsageKey() string { return descriptors[c].usageKey }

// String returns an ASCII label suitable for logs and metrics.
func (c Command) String() string {
	if s, ok := descriptors[c]; ok {
		return s.label
	}
	return "unknown"
}
