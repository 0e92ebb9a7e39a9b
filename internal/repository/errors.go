// Package repository contains data access logic separated from HTTP
// handlers.  This file defines sentinel errors reused across multiple
// repositories so that handlers can translate failure scenarios into
// specific HTTP responses with errors.Is.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts a mutation on a
// record they do not own.  Handlers translate this into HTTP 403.  It is
// only ever returned after the record has been found to exist, so a 403
// never leaks existence information and a 404 never leaks ownership.
var ErrForbidden = errors.New("forbidden")

// ErrTweetNotFound is returned when a tweet id matches no row.
var ErrTweetNotFound = errors.New("tweet not found")

// ErrEmailExists is returned when registration collides with an existing
// user. Handlers translate this into HTTP 400.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")
