// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist for the caller.
	// An entity owned by another user is reported exactly the same way.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken indicates a registration attempt with an email already on file.
	ErrEmailTaken = errors.New("email already registered")

	// ErrBadPassword indicates a failed password comparison during login.
	ErrBadPassword = errors.New("invalid password")

	// ErrInvalidToken indicates a bearer token that failed signature,
	// decoding, or expiry checks.
	ErrInvalidToken = errors.New("invalid token")

	// ErrValidation indicates malformed or missing input. Wrap it with
	// detail: fmt.Errorf("%w: title is required", errs.ErrValidation).
	ErrValidation = errors.New("validation failed")
)
