package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *Error {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *Error {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// ProfileRead wraps a failure to read the persisted profile
func ProfileRead(location string, err error) *Error {
	return Wrap(err, ErrCodeProfileRead, "failed to read profile").
		WithDetail("location", location)
}

// ProfileWrite wraps a failure to persist a profile value
func ProfileWrite(location string, err error) *Error {
	return Wrap(err, ErrCodeProfileWrite, "failed to write profile").
		WithDetail("location", location)
}

// EventDecode creates an error for a host event that could not be decoded
func EventDecode(source string, line int, err error) *Error {
	return Wrap(err, ErrCodeEventDecode, fmt.Sprintf("invalid event in %s at line %d", source, line)).
		WithDetail("source", source).
		WithDetail("line", line)
}

// FeedFailed wraps a failure of an event source
func FeedFailed(feed string, err error) *Error {
	return Wrap(err, ErrCodeFeedFailed, fmt.Sprintf("event feed %s failed", feed)).
		WithDetail("feed", feed)
}
