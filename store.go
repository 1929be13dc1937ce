package main

import (
	"context"
	"errors"
)

// errNotFound is returned by stores when a keyed row does not exist.
var errNotFound = errors.New("not found")

// nutritionStore persists users, profiles and log entries. Implementations
// normalize their column naming into the structs in models.go, so nothing
// past this boundary looks at raw column names.
type nutritionStore interface {
	// LoadProfile returns found=false when the user has never saved a profile.
	LoadProfile(ctx context.Context, userID int) (p profile, found bool, err error)
	// SaveProfile replaces the user's profile and its targets snapshot.
	SaveProfile(ctx context.Context, userID int, p profile, t targets) error
	// LoadEntries returns every entry of the user in ascending id order.
	LoadEntries(ctx context.Context, userID int) ([]logEntry, error)
	// AppendEntries inserts the batch atomically and returns it with ids assigned.
	AppendEntries(ctx context.Context, userID int, entries []logEntry) ([]logEntry, error)
	// DeleteEntry removes one entry; errNotFound when no such entry belongs to the user.
	DeleteEntry(ctx context.Context, userID, id int) error

	UserByUsername(ctx context.Context, username string) (user, error)
	UserIDByToken(ctx context.Context, token string) (int, error)
	CreateUser(ctx context.Context, u user) (int, error)

	Close()
}
