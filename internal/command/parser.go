package command

import (
	"strconv"
	"strings"
	"unicode"
)

// SplitCommand splits text once on whitespace into the command token and
// the trailing arguments. Leading whitespace of the arguments is dropped,
// the rest is left untouched.
func SplitCommand(text string) (token, trailing string) {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)

	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return text, ""
	}

	return text[:idx], strings.TrimLeftFunc(text[idx:], unicode.IsSpace)
}

// ParseAmount reads a leading non-negative integer from trailing. When the
// first word is not made of ASCII digits only, or does not fit in int64,
// the amount defaults to 1 and trailing is returned unchanged.
func ParseAmount(trailing string) (amount int64, remainder string) {
	fields := strings.Fields(trailing)
	if len(fields) == 0 || !isASCIIDigits(fields[0]) {
		return 1, trailing
	}

	n, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 1, trailing
	}

	return n, strings.Join(fields[1:], " ")
}

func isASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
