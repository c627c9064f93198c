package ai

import "errors"

var (
	// ErrThreadNotFound is returned when a caller references a thread id that
	// does not exist for their session.
	ErrThreadNotFound = errors.New("thread not found")

	// ErrValidation marks malformed requests rejected before any work starts.
	ErrValidation = errors.New("invalid request")

	// ErrStreamClosed is returned by TurnStream.Send after the consumer
	// stopped reading. The turn keeps running; only emission stops.
	ErrStreamClosed = errors.New("stream closed")
)
