package domain

import "errors"

var (
	// ErrTransport marks network or server failures. Retryable by the user
	// re-triggering the action; nothing retries automatically.
	ErrTransport = errors.New("transport failure")

	// ErrCompletionConflict means a completion already exists for that
	// habit and day. Tolerated as an idempotent no-op by callers whose
	// intent is already satisfied.
	ErrCompletionConflict = errors.New("completion already exists for this day")

	ErrCompletionNotFound = errors.New("completion not found")
	ErrItemNotFound       = errors.New("board item not found")
	ErrUserNotFound       = errors.New("user not found")

	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized access")

	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
)
