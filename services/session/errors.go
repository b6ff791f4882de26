package session

import "errors"

var (
	// ErrInvalidCredentials is returned for any non-success login response.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrFederatedAuth is returned when a federated code cannot be exchanged.
	ErrFederatedAuth = errors.New("federated sign-in failed")
	// ErrNetwork is returned when the auth backend could not be reached.
	ErrNetwork = errors.New("could not reach the server, please try again")
)
