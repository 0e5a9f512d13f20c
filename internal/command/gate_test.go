package command

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Proton-105/social-credit-bot/internal/domain"
)

func TestGate_Allowed(t *testing.T) {
	testCases := []struct {
		name       string
		configured string
		handle     string
		want       bool
	}{
		{name: "configured with at, user without", configured: "@Alice", handle: "Alice", want: true},
		{name: "both without at", configured: "Alice", handle: "Alice", want: true},
		{name: "user with at", configured: "@Alice", handle: "@Alice", want: true},
		{name: "case differs", configured: "@Alice", handle: "alice", want: false},
		{name: "other user", configured: "@Alice", handle: "Bob", want: false},
		{name: "empty user handle", configured: "@Alice", handle: "", want: false},
		{name: "empty configured handle", configured: "", handle: "", want: false},
		{name: "only one at removed", configured: "@Alice", handle: "@@Alice", want: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			gate := NewGate(tc.configured)
			assert.Equal(t, tc.want, gate.Allowed(domain.User{ID: 1, Handle: tc.handle}))
		})
	}
}

func TestGate_SetHandle(t *testing.T) {
	gate := NewGate("@Zhdanov_Albert")
	assert.Equal(t, "Zhdanov_Albert", gate.Handle())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = gate.Allowed(domain.User{Handle: "Zhdanov_Albert"})
		}()
	}
	gate.SetHandle("@Alice")
	wg.Wait()

	assert.False(t, gate.Allowed(domain.User{Handle: "Zhdanov_Albert"}))
	assert.True(t, gate.Allowed(domain.User{Handle: "Alice"}))
}
