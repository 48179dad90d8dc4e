package engine

import (
	"errors"
	"fmt"
)

// Error is a condition the engine handled locally.
//
// None of these reach callers of SendCommand. They are logged, counted,
// and, for channel-fatal errors, published to observers as a terminal
// event.
//
// Error kinds include:
//   - Correlation miss: a reply whose ticket matches no outstanding command
//   - Channel fatal: the remote side declared the channel unusable
//   - Decode failed: an inbound frame was not a valid container
//   - Stale incremental: an incremental status update before the first full one
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Service is the logical service the error arrived on.
	Service string

	// Ticket is the reply ticket, for correlation misses.
	Ticket int32

	// Err is the underlying error, if any.
	Err error
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeCorrelationMiss indicates a reply for an unknown ticket.
	ErrCodeCorrelationMiss ErrorCode = "CORRELATION_MISS"

	// ErrCodeChannelFatal indicates an explicit error container for the channel.
	ErrCodeChannelFatal ErrorCode = "CHANNEL_FATAL"

	// ErrCodeDecodeFailed indicates malformed container bytes.
	ErrCodeDecodeFailed ErrorCode = "DECODE_FAILED"

	// ErrCodeStaleIncremental indicates an incremental update on an invalid topic.
	ErrCodeStaleIncremental ErrorCode = "STALE_INCREMENTAL"
)

func (e *Error) Error() string {
	switch {
	case e.Ticket != 0:
		return fmt.Sprintf("%s: %s (service=%s, ticket=%d)", e.Code, e.Message, e.Service, e.Ticket)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s (service=%s): %v", e.Code, e.Message, e.Service, e.Err)
	case e.Service != "":
		return fmt.Sprintf("%s: %s (service=%s)", e.Code, e.Message, e.Service)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsCorrelationMiss returns true if err is a correlation miss.
// Uses errors.As to handle wrapped errors.
func IsCorrelationMiss(err error) bool { return hasCode(err, ErrCodeCorrelationMiss) }

// IsChannelFatal returns true if err is a channel-fatal error.
func IsChannelFatal(err error) bool { return hasCode(err, ErrCodeChannelFatal) }

// IsDecodeFailed returns true if err is a decode failure.
func IsDecodeFailed(err error) bool { return hasCode(err, ErrCodeDecodeFailed) }

// IsStaleIncremental returns true if err is a dropped incremental update.
func IsStaleIncremental(err error) bool { return hasCode(err, ErrCodeStaleIncremental) }

func newCorrelationMiss(service string, ticket int32) *Error {
	return &Error{
		Code:    ErrCodeCorrelationMiss,
		Message: "reply for unknown ticket",
		Service: service,
		Ticket:  ticket,
	}
}

func newChannelFatal(service string, notes []string) *Error {
	msg := "channel error"
	if len(notes) > 0 {
		msg = fmt.Sprintf("channel error: %v", notes)
	}
	return &Error{Code: ErrCodeChannelFatal, Message: msg, Service: service}
}

func newDecodeFailed(service string, err error) *Error {
	return &Error{
		Code:    ErrCodeDecodeFailed,
		Message: "discarding malformed container",
		Service: service,
		Err:     err,
	}
}

func newStaleIncremental(topic string) *Error {
	return &Error{
		Code:    ErrCodeStaleIncremental,
		Message: "incremental update before first full update",
		Service: "status",
		Err:     fmt.Errorf("topic %s", topic),
	}
}
