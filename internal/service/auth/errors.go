package auth

import "errors"

// Sentinel errors for authentication flows. Handlers map these to HTTP
// status codes without exposing backend detail.
var (
	// ErrInvalidToken is returned when an access token fails verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when an access token has expired.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidRefreshToken is returned when a refresh token is rejected
	// by the backend.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrInvalidCredentials is returned when an email/password pair is
	// rejected by the backend.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when signup is rejected because the email
	// is already registered.
	ErrEmailTaken = errors.New("email already registered")
)
