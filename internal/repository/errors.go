// Package repository contains data access logic separated from HTTP
// handlers and from the import pipeline.  Sentinel errors defined here let
// higher layers map failure scenarios onto HTTP status codes without
// inspecting driver-specific errors.
package repository

import (
	"errors"
	"strings"
)

// ErrLocationNotFound is returned when a location id does not exist.
var ErrLocationNotFound = errors.New("location not found")

// ErrVenueExists is returned when a location is created or updated with a
// venue id that is already taken.
var ErrVenueExists = errors.New("venue id already exists")

// ErrEventNotFound is returned when an event id does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrUserNotFound is returned when a user cannot be found.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameExists is returned when registering a username that is taken.
var ErrUsernameExists = errors.New("username already exists")

// ErrAlreadyLiked is returned when a user likes a location twice.
var ErrAlreadyLiked = errors.New("already liked")

// ErrLikeNotFound is returned when removing a like that does not exist.
var ErrLikeNotFound = errors.New("like not found")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).  The driver exposes it as a plain error string.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
