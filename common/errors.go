package common

import "errors"

// Failure kinds of resolver invocations. Every error returned by a resolver
// method wraps exactly one of them, use errors.Is to match.
var (
	// ErrAuthorization appears when the resolver is not set for the identity,
	// when a delegated call is submitted by an account that is not a provider
	// of the identity, or when an owner-only method is called by someone else.
	ErrAuthorization = errors.New("authorization failed")
	// ErrTimestamp appears when a mandate timestamp is in the future or has
	// expired.
	ErrTimestamp = errors.New("invalid timestamp")
	// ErrSignature appears when a mandate signature does not recover the
	// associated address.
	ErrSignature = errors.New("permission denied")
	// ErrConflict appears when a key has already been claimed.
	ErrConflict = errors.New("already added")
	// ErrValidation appears when an argument is malformed, e.g. a public key
	// does not derive the address it is added for.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound appears when a referenced identity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrVersionMismatch appears when resolver storage has been written by an
	// incompatible version.
	ErrVersionMismatch = errors.New("version mismatch")
)
