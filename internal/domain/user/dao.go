package user

import "context"

// DAO defines the contract for the user record store
type DAO interface {
	// InsertUser stores u. A row with the same ID is replaced; a zero ID
	// makes the store assign the next one. Returns the stored user.
	InsertUser(ctx context.Context, u User) (User, error)

	// DeleteUser removes the row with u's ID. Deleting a missing row is a no-op.
	DeleteUser(ctx context.Context, u User) error

	// GetAllUsers streams the full user list ordered by ID descending. The
	// current list is sent first, then a fresh list after every write. The
	// channel is closed once ctx is cancelled.
	GetAllUsers(ctx context.Context) <-chan []User
}
