package user

import "github.com/go-faster/errors"

// ErrNotFound is returned when no user matches the given identifier.
var ErrNotFound = errors.New("user not found")

// User is an authenticated customer. Username is the foreign key used by
// orders and payment histories.
type User struct {
	ID       string
	Username string
	Email    string
}

// Repository resolves users by their external identifier.
type Repository interface {
	UserByID(id string) (User, error)
}
