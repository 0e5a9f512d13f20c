// Package domain holds the types shared by the command core and the chat adapter.
package domain

import "strings"

// User is a chat member as seen by the bot. Verified users come from the
// platform itself; unverified ones were synthesized from a mention.
type User struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle,omitempty"`
	Verified    bool   `json:"verified"`
}

// Name returns the display name, falling back to the handle.
func (u User) Name() string {
	if name := strings.TrimSpace(u.DisplayName); name != "" {
		return name
	}
	return u.Handle
}

// Invocation is a single command message, built per update and never stored.
type Invocation struct {
	Text        string
	ChatID      int64
	MessageID   int
	Sender      User
	ReplyTarget *User
}
