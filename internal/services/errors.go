package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials means email or password was absent from the request.
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrAccountNotFound means no account matches the email.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidPassword means the password does not match the stored hash.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrDuplicateEmail is the store rejecting a second account for an email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrAmbiguousEmail means a lookup matched more than one account.
	ErrAmbiguousEmail = errors.New("multiple accounts share this email")
)

// PersistenceError wraps a store-level failure. Err is either one of the
// store sentinels above or the driver error.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistenceErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
