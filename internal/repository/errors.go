// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to act on a booking that belongs to another client,
// while ErrConflict signals that an operation cannot proceed due to
// conflicting state (e.g. subscribing an email that is already on
// the newsletter list).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert or update cannot be
// performed because of conflicting state, such as a duplicate
// service slug. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")
