package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	testCases := []struct {
		name         string
		want         Command
		privileged   bool
		parsesAmount bool
	}{
		{name: "прибавить_social_credit", want: Increment, privileged: true, parsesAmount: true},
		{name: "убавить_social_credit", want: Decrement, privileged: true, parsesAmount: true},
		{name: "getsocialcredit", want: Query},
		{name: "изгнать", want: Expel, privileged: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cmd, ok := Lookup(tc.name)
			assert.True(t, ok)
			assert.Equal(t, tc.want, cmd)
			assert.Equal(t, tc.name, cmd.Name())
			assert.Equal(t, tc.privileged, cmd.Privileged())
			assert.Equal(t, tc.parsesAmount, cmd.ParsesAmount())
			assert.NotEmpty(t, cmd.UsageKey())
		})
	}

	for _, name := range []string{"GetSocialCredit", "start", "", "/getsocialcredit"} {
		_, ok := Lookup(name)
		assert.False(t, ok, name)
	}
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "increment", Increment.String())
	assert.Equal(t, "expel", Expel.String())
	assert.Equal(t, "unknown", Unknown.String())
	assert.Len(t, All(), 4)
}
