package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCommand(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		token    string
		trailing string
	}{
		{name: "no args", text: "/getsocialcredit", token: "/getsocialcredit"},
		{name: "args", text: "/прибавить_social_credit 5 @bob", token: "/прибавить_social_credit", trailing: "5 @bob"},
		{name: "extra spacing kept after first word", text: "/изгнать   @bob  now ", token: "/изгнать", trailing: "@bob  now "},
		{name: "newline separator", text: "/getsocialcredit\n@bob", token: "/getsocialcredit", trailing: "@bob"},
		{name: "leading whitespace", text: "  /getsocialcredit", token: "/getsocialcredit"},
		{name: "empty", text: ""},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			token, trailing := SplitCommand(tc.text)
			assert.Equal(t, tc.token, token)
			assert.Equal(t, tc.trailing, trailing)
		})
	}
}

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		name      string
		trailing  string
		amount    int64
		remainder string
	}{
		{name: "amount and mention", trailing: "5 @bob", amount: 5, remainder: "@bob"},
		{name: "mention only", trailing: "@bob", amount: 1, remainder: "@bob"},
		{name: "negative is not an amount", trailing: "-5 @bob", amount: 1, remainder: "-5 @bob"},
		{name: "plus sign", trailing: "+5 @bob", amount: 1, remainder: "+5 @bob"},
		{name: "decimal", trailing: "5.0 @bob", amount: 1, remainder: "5.0 @bob"},
		{name: "unicode digits", trailing: "٥ @bob", amount: 1, remainder: "٥ @bob"},
		{name: "overflow", trailing: "99999999999999999999 @bob", amount: 1, remainder: "99999999999999999999 @bob"},
		{name: "max int64", trailing: "9223372036854775807", amount: 9223372036854775807},
		{name: "zero", trailing: "0", amount: 0},
		{name: "leading zeros", trailing: "007 x", amount: 7, remainder: "x"},
		{name: "empty", trailing: "", amount: 1},
		{name: "remainder words rejoined", trailing: "3  @bob   was   here", amount: 3, remainder: "@bob was here"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			amount, remainder := ParseAmount(tc.trailing)
			assert.Equal(t, tc.amount, amount)
			assert.Equal(t, tc.remainder, remainder)
		})
	}
}
