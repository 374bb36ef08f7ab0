package user

import "errors"

// ErrInvalidCredentials is returned by Authenticate for an unknown email or
// a wrong password. The two cases are not distinguished.
var ErrInvalidCredentials = errors.New("invalid email or password")

// CreateInput carries the fields of a new user.
type CreateInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=191"`
	Email    string `json:"email"    validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateInput replaces name and email. A nil or empty Password keeps the
// stored hash.
type UpdateInput struct {
	Name     string  `json:"name"     validate:"required,min=2,max=191"`
	Email    string  `json:"email"    validate:"required,email,max=191"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

const (
	msgNameTaken  = "name has already been taken"
	msgEmailTaken = "email has already been taken"
)
