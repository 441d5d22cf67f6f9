// Package domain defines domain-level errors for the holdings feature.
package domain

import "errors"

// Domain errors for quote synchronization and holding management.
// Quote errors are always wrapped with the ticker and the underlying cause, so
// callers classify them with errors.Is.
var (
	// ErrTransport indicates the quote provider could not be reached or answered
	// with a non-2xx status (network failure, timeout, rate limit response).
	ErrTransport = errors.New("quote transport error")

	// ErrProvider indicates the provider answered but the response carries no usable
	// price (missing, zero, negative or non-numeric).
	ErrProvider = errors.New("quote provider error")

	// ErrStorage indicates the holdings store failed to load or write.
	ErrStorage = errors.New("holdings storage error")

	// ErrHoldingNotFound indicates that no holding exists with the given ID.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrInvalidHolding indicates that a holding failed validation
	// (empty name or ticker, non-positive quantity or buy price).
	ErrInvalidHolding = errors.New("invalid holding")
)
