package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAuthentication is returned when credentials do not match.
	ErrAuthentication = errors.New("invalid credentials")
	// ErrValidation is returned for malformed input or profile updates.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence is returned when durable storage rejects a write.
	ErrPersistence = errors.New("persistence failed")
	// ErrInvalidState is returned when an operation is not allowed in the current session phase.
	ErrInvalidState = errors.New("operation not allowed in current session state")
	// ErrEmailTaken is returned when signing up with an email the credential source already knows.
	ErrEmailTaken = fmt.Errorf("email is already registered: %w", ErrValidation)
)
