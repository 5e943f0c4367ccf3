package users

import "time"

type UserRepo interface {
	// Insert creates user, failing with errors.ErrUserExists or
	// errors.ErrUsernameTaken if the email or username is already in use.
	Insert(user *User) error
	Upsert(user *User) error
	Delete(email string) error
	GetByEmail(email string) (*User, error)
	GetByID(ID string) (*User, error)
	GetByUsername(username string) (*User, error)
	SetBlocked(email string, blocked bool) error
	SetLastLogin(email string, at time.Time) error
}
