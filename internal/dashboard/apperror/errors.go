// Package apperror defines the error kinds the dashboard reports to callers.
// Concrete errors wrap one of the sentinels so they can be classified with errors.Is.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrInsufficientShares  = errors.New("insufficient shares")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// NotFound returns an error for a missing entity, e.g. NotFound("stock", "SBER").
func NotFound(entity string, key interface{}) error {
	return fmt.Errorf("%s %v: %w", entity, key, ErrNotFound)
}

// Validation returns a validation error with the given message.
func Validation(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}

// InsufficientShares reports a sell larger than the held quantity.
func InsufficientShares(ticker string, held, requested int64) error {
	return fmt.Errorf("cannot sell %d %s, only %d held: %w", requested, ticker, held, ErrInsufficientShares)
}

// Upstream wraps a market-data provider failure.
func Upstream(op string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", op, ErrUpstreamUnavailable)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUpstreamUnavailable, err)
}
