package users

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserExists         = errors.New("user already exists")
	ErrNotFound           = errors.New("user not found")
)
