// Package credit stores social credit scores keyed by user id.
package credit

import (
	"context"
	"errors"
	"math"
)

// ErrOverflow is returned when an adjustment would leave the int64 range.
var ErrOverflow = errors.New("social credit score out of range")

// Store keeps one integer score per user. Absent users score zero.
type Store interface {
	// Get returns the current score of the user, 0 when none is recorded.
	Get(ctx context.Context, userID int64) (int64, error)
	// Add applies delta atomically and returns the resulting score.
	Add(ctx context.Context, userID int64, delta int64) (int64, error)
}

func checkedAdd(current, delta int64) (int64, error) {
	if delta > 0 && current > math.MaxInt64-delta {
		return current, ErrOverflow
	}
	if delta < 0 && current < math.MinInt64-delta {
		return current, ErrOverflow
	}
	return current + delta, nil
}
