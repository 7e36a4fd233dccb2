package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidCredentials is returned when identifier/password do not match an email account.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned on registration with an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken is returned on registration with an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNotAuthenticated is returned when an operation requires a signed-in user.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrAuthNotAvailable is returned when an authentication request arrives
	// outside the login and registration screens.
	ErrAuthNotAvailable = errors.New("authentication not available")
)
