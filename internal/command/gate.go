package command

import (
	"strings"
	"sync"

	"github.com/Proton-105/social-credit-bot/internal/domain"
)

// Gate allows privileged commands for a single handle.
type Gate struct {
	mu     sync.RWMutex
	handle string
}

// NewGate returns a gate for handle, with or without the leading '@'.
func NewGate(handle string) *Gate {
	return &Gate{handle: normalizeAllowed(handle)}
}

// Allowed reports whether user may run privileged commands. Comparison is
// exact and case-sensitive; users without a handle are never allowed.
func (g *Gate) Allowed(user domain.User) bool {
	candidate := normalizeAllowed(user.Handle)
	if candidate == "" {
		return false
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.handle != "" && candidate == g.handle
}

// SetHandle replaces the allowed handle.
func (g *Gate) SetHandle(handle string) {
	g.mu.Lock()
	g.handle = normalizeAllowed(handle)
	g.mu.Unlock()
}

// Handle returns the allowed handle without '@'.
func (g *Gate) Handle() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.handle
}

func normalizeAllowed(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}
