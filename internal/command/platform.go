package command

import "context"

// Platform is the chat platform the handlers talk back to.
type Platform interface {
	SendReply(ctx context.Context, chatID int64, text string) error
	RemoveMember(ctx context.Context, chatID, userID int64) RemovalResult
}

// RemovalResult is the outcome of a RemoveMember call.
type RemovalResult struct {
	Removed bool
	Reason  string
	Err     error
}

// Removed reports a successful removal.
func Removed() RemovalResult {
	return RemovalResult{Removed: true}
}

// RemovalFailed reports a failed removal with a human readable reason.
func RemovalFailed(reason string, err error) RemovalResult {
	if reason == "" && err != nil {
		reason = err.Error()
	}
	return RemovalResult{Reason: reason, Err: err}
}
