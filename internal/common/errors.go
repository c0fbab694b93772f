package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Input errors: user-correctable, the caller may retry the same field.
	ErrInvalidPhrase        = errors.New("invalid recovery phrase")
	ErrPasswordPolicy       = errors.New("password does not meet policy")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrConfirmationMismatch = errors.New("confirmation words do not match")
	ErrDecryptionFailed     = errors.New("decryption failed")
	ErrEmptyInput           = errors.New("empty input")

	// Flow errors.
	ErrInvalidTransition = errors.New("action not allowed in current state")
	ErrBusy              = errors.New("another action is in progress")
	ErrTerminal          = errors.New("onboarding already completed")

	// Credential format errors.
	ErrCorruptCredential = errors.New("corrupt credential")
)

// Kind classifies an error for presentation.
type Kind int

const (
	KindUnknown Kind = iota
	KindInput
	KindStorage
	KindFatal
	KindFlow
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindStorage:
		return "storage"
	case KindFatal:
		return "fatal"
	case KindFlow:
		return "flow"
	default:
		return "unknown"
	}
}

// InputError is a user-correctable failure scoped to a single field.
type InputError struct {
	Field string // "password", "phrase", "confirmation", ...
	Err   error  // one of the Err* input sentinels
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// NewInputError wraps reason for field.
func NewInputError(field string, reason error) error {
	return &InputError{Field: field, Err: reason}
}

// StorageError reports a SecretStore read or write failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// FatalConfigError reports a missing cryptographic primitive or random source.
// It is never retried.
type FatalConfigError struct {
	Component string
	Err       error
}

func (e *FatalConfigError) Error() string {
	return fmt.Sprintf("fatal configuration error in %s: %v", e.Component, e.Err)
}

func (e *FatalConfigError) Unwrap() error {
	return e.Err
}

// KindOf classifies err. Callers use it to decide between "try again" and
// "installation is broken" messages.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var fatal *FatalConfigError
	if errors.As(err, &fatal) {
		return KindFatal
	}
	var input *InputError
	if errors.As(err, &input) {
		return KindInput
	}
	var storage *StorageError
	if errors.As(err, &storage) {
		return KindStorage
	}

	switch {
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrBusy), errors.Is(err, ErrTerminal):
		return KindFlow
	case errors.Is(err, ErrInvalidPhrase), errors.Is(err, ErrPasswordPolicy),
		errors.Is(err, ErrPasswordMismatch), errors.Is(err, ErrConfirmationMismatch),
		errors.Is(err, ErrDecryptionFailed), errors.Is(err, ErrEmptyInput):
		return KindInput
	}
	return KindUnknown
}
