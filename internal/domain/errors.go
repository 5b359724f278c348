package domain

import (
	"errors"
	"fmt"
)

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

var (
	// ErrCustomerNotFound is returned when a customer lookup finds no row.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrOrderNotFound is returned when an order lookup finds no row.
	ErrOrderNotFound = errors.New("order not found")

	// ErrAssetNotFound is returned when an asset lookup finds no row.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrInsufficientBalance is returned when a reservation or withdrawal
	// exceeds the usable size of an asset.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrUnallowedAccess is returned when a customer acts on a resource
	// owned by someone else.
	ErrUnallowedAccess = errors.New("unallowed access")

	// ErrVersionConflict is returned when a versioned save finds the row
	// changed underneath it. Should not happen while the row lock is held.
	ErrVersionConflict = errors.New("asset version conflict")
)

// OperationNotPermittedError reports an order state transition attempted
// from a state that does not allow it, or an attempt to trade the cash
// symbol itself.
type OperationNotPermittedError struct {
	Msg string
}

func (e *OperationNotPermittedError) Error() string {
	return e.Msg
}

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// LockTimeoutError is returned when the exclusive asset lock cannot be
// acquired within the configured timeout. The whole request is safe to retry.
type LockTimeoutError struct {
	CustomerID uint
	AssetName  string
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("lock timeout for customer %d asset %s", e.CustomerID, e.AssetName)
}

func (e *LockTimeoutError) IsRetriable() bool {
	return true
}

// LockAbortedError is returned when the caller's context ends while waiting
// for an asset lock. Wraps the context error so errors.Is still sees
// context.Canceled or context.DeadlineExceeded.
type LockAbortedError struct {
	CustomerID uint
	AssetName  string
	Err        error
}

func (e *LockAbortedError) Error() string {
	return fmt.Sprintf("lock wait aborted for customer %d asset %s: %v", e.CustomerID, e.AssetName, e.Err)
}

func (e *LockAbortedError) Unwrap() error {
	return e.Err
}

// NoHandlerError reports a missing (action, side) handler registration.
// The registry fails fast at startup, so seeing this at request time means
// the process was assembled by hand incorrectly.
type NoHandlerError struct {
	Action OrderAction
	Side   OrderSide
}

func (e *NoHandlerError) Error() string {
	return fmt.Sprintf("no handler registered for action %s side %s", e.Action, e.Side)
}
