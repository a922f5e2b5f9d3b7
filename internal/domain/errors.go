package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ValidationError represents malformed or incomplete input. It is always
// raised before any write reaches the store.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	if e.Message == "" {
		return "invalid input"
	}
	return e.Message
}

func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	if ok {
		return true
	}
	_, ok = target.(*ValidationError)
	return ok
}

var ErrValidation = ValidationError{}

// ConflictError represents a natural-key uniqueness violation, raised either
// by the advisory pre-check or by the store's own unique constraint.
type ConflictError struct {
	Field string
	Value string
}

func (e ConflictError) Error() string {
	if e.Field == "" {
		return "already exists"
	}
	return fmt.Sprintf("%s '%s' is already in use", e.Field, e.Value)
}

func (e ConflictError) Is(target error) bool {
	_, ok := target.(ConflictError)
	if ok {
		return true
	}
	_, ok = target.(*ConflictError)
	return ok
}

var ErrConflict = ConflictError{}

// StoreUnavailableError represents a transient connectivity fault talking to
// the backing store.
type StoreUnavailableError struct {
	Cause error
}

func (e StoreUnavailableError) Error() string {
	if e.Cause == nil {
		return "store unavailable"
	}
	return fmt.Sprintf("store unavailable: %v", e.Cause)
}

func (e StoreUnavailableError) Unwrap() error { return e.Cause }

func (e StoreUnavailableError) Is(target error) bool {
	_, ok := target.(StoreUnavailableError)
	if ok {
		return true
	}
	_, ok = target.(*StoreUnavailableError)
	return ok
}

var ErrStoreUnavailable = StoreUnavailableError{}

// TransactionFailedError is returned when the transfer write sequence aborted
// after partial writes. Cause is the failure that triggered the abort.
// CompensationErr, when non-nil, is a secondary failure of the compensating
// header delete and means the header row may still be present.
type TransactionFailedError struct {
	Cause           error
	CompensationErr error
}

func (e TransactionFailedError) Error() string {
	if e.CompensationErr != nil {
		return fmt.Sprintf("transfer aborted: %v (compensation also failed, header may remain: %v)", e.Cause, e.CompensationErr)
	}
	return fmt.Sprintf("transfer aborted and rolled back: %v", e.Cause)
}

func (e TransactionFailedError) Unwrap() error { return e.Cause }

func (e TransactionFailedError) Is(target error) bool {
	_, ok := target.(TransactionFailedError)
	if ok {
		return true
	}
	_, ok = target.(*TransactionFailedError)
	return ok
}

var ErrTransactionFailed = TransactionFailedError{}
