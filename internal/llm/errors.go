package llm

import "errors"

var (
	// ErrUnavailable indicates the backend could not be reached or refused
	// the request.
	ErrUnavailable = errors.New("llm backend unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the response could not be parsed into the
	// expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrEmptyResponse indicates the backend answered with no text.
	ErrEmptyResponse = errors.New("llm returned an empty response")

	// ErrNotConfigured indicates no backend is enabled.
	ErrNotConfigured = errors.New("llm backend not configured")
)
