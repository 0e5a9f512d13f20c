package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Message catalog keys shown to the invoker.
const (
	KeyInternal        = "errors.internal"
	KeyAccessDenied    = "credit.denied"
	KeyExpelFailed     = "credit.expel_failed"
	KeyExpelUnverified = "credit.expel_unverified"
)

const (
	CodeAccessDenied       = "E100"
	CodeUnresolvableTarget = "E110"
	CodeStore              = "E200"
	CodePlatformAction     = "E300"
	CodeUnverifiedTarget   = "E400"
	CodeInternal           = "E900"
)

// AppError is an error with enough metadata to log it, report it and tell
// the invoker what happened.
type AppError struct {
	Code       string
	Message    string
	MessageKey string
	Args       []any
	Severity   Severity
	cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

// NewAccessDeniedError reports that handle is not on the allow-list.
func NewAccessDeniedError(handle string) *AppError {
	return &AppError{
		Code:       CodeAccessDenied,
		Message:    fmt.Sprintf("access denied for %q", handle),
		MessageKey: KeyAccessDenied,
		Severity:   SeverityLow,
	}
}

// NewUnresolvableTargetError reports that no target user could be determined.
// usageKey points at the usage hint of the command that failed.
func NewUnresolvableTargetError(usageKey string) *AppError {
	return &AppError{
		Code:       CodeUnresolvableTarget,
		Message:    "no target user resolved",
		MessageKey: usageKey,
		Severity:   SeverityLow,
	}
}

func NewStoreError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:       CodeStore,
		Message:    fmt.Sprintf("Score store error: %s", underlyingMsg),
		MessageKey: KeyInternal,
		Severity:   SeverityHigh,
		cause:      cause,
	}
}

// NewPlatformActionError reports a failed moderation call to the chat platform.
func NewPlatformActionError(action, reason string, cause error) *AppError {
	return &AppError{
		Code:       CodePlatformAction,
		Message:    fmt.Sprintf("Platform action %s failed: %s", action, reason),
		MessageKey: KeyExpelFailed,
		Severity:   SeverityMedium,
		cause:      cause,
	}
}

// NewUnverifiedTargetError reports a moderation request against a user the
// bot has never seen, identified only by the mention text.
func NewUnverifiedTargetError(handle string) *AppError {
	return &AppError{
		Code:       CodeUnverifiedTarget,
		Message:    fmt.Sprintf("target @%s is not a verified member", handle),
		MessageKey: KeyExpelUnverified,
		Args:       []any{handle},
		Severity:   SeverityLow,
	}
}

func newInternalError(cause error) *AppError {
	msg := "internal error"
	if cause != nil {
		msg = cause.Error()
	}

	return &AppError{
		Code:       CodeInternal,
		Message:    msg,
		MessageKey: KeyInternal,
		Severity:   SeverityHigh,
		cause:      cause,
	}
}
