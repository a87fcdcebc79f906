// Package errors provides centralized error definitions for the application.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Configuration errors.
var (
	// ErrConfigMissing indicates a required credential or identifier is absent.
	// Fatal: surfaced before any network call is made.
	ErrConfigMissing = errors.New("required configuration missing")
)

// Transport and API errors.
var (
	// ErrUnexpectedStatus indicates an HTTP collaborator returned a non-success status.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrSlackAPI indicates the Slack API answered with ok:false.
	ErrSlackAPI = errors.New("slack api error")

	// ErrChannelNotFound indicates a video channel could not be resolved.
	ErrChannelNotFound = errors.New("channel not found")
)

// Response errors.
var (
	// ErrEmptyResponse indicates an empty response was received.
	ErrEmptyResponse = errors.New("empty response")
)

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
