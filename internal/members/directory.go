// Package members remembers chat members the bot has seen so that a mention
// can be resolved to a real user.
package members

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Proton-105/social-credit-bot/internal/domain"
)

// Directory maps handles to users observed on the platform.
type Directory interface {
	// Lookup returns the user last seen with handle, or nil when unknown.
	Lookup(ctx context.Context, handle string) (*domain.User, error)
	// Remember records user under its handle. Users without a handle are ignored.
	Remember(ctx context.Context, user domain.User) error
}

// normalizeHandle drops leading '@'. Lookups stay case-sensitive.
func normalizeHandle(handle string) string {
	return strings.TrimLeft(strings.TrimSpace(handle), "@")
}

type memoryEntry struct {
	user    domain.User
	expires time.Time
}

// MemoryDirectory is a process-local Directory.
type MemoryDirectory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryDirectory returns a directory whose entries expire after ttl.
// A non-positive ttl keeps entries forever.
func NewMemoryDirectory(ttl time.Duration) *MemoryDirectory {
	return &MemoryDirectory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (d *MemoryDirectory) Lookup(_ context.Context, handle string) (*domain.User, error) {
	key := normalizeHandle(handle)
	if key == "" {
		return nil, nil
	}

	d.mu.RLock()
	entry, ok := d.entries[key]
	d.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if d.expired(entry) {
		return d.evict(key)
	}

	user := entry.user
	return &user, nil
}

// evict deletes key if it is still expired under the write lock. An entry
// refreshed since the read is returned instead.
func (d *MemoryDirectory) evict(key string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.entries[key]
	if !ok {
		return nil, nil
	}
	if d.expired(entry) {
		delete(d.entries, key)
		return nil, nil
	}

	user := entry.user
	return &user, nil
}

func (d *MemoryDirectory) expired(entry memoryEntry) bool {
	return !entry.expires.IsZero() && d.now().After(entry.expires)
}

func (d *MemoryDirectory) Remember(_ context.Context, user domain.User) error {
	key := normalizeHandle(user.Handle)
	if key == "" {
		return nil
	}

	entry := memoryEntry{user: user}
	if d.ttl > 0 {
		entry.expires = d.now().Add(d.ttl)
	}

	d.mu.Lock()
	d.entries[key] = entry
	d.mu.Unlock()

	return nil
}
