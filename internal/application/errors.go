package application

import "errors"

// Error taxonomy shared by the services. Handlers translate these into HTTP
// statuses; anything not listed here propagates as a 500.
var (
	// ErrNotFound: a referenced user, post, or comment does not exist, or a
	// strict-mode page is out of range.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials covers every credential failure - unknown email,
	// wrong password, bad or expired token. Callers never learn which.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden: authenticated but lacking the capability, or touching
	// another user's resource without the admin override.
	ErrForbidden = errors.New("forbidden")
	// ErrNotConfirmed: the account exists but has not confirmed its email;
	// mutating endpoints are closed to it.
	ErrNotConfirmed = errors.New("account not confirmed")
	// ErrValidation: malformed input that survived transport-level binding,
	// e.g. an empty post body.
	ErrValidation = errors.New("invalid input")
	// ErrInvalidOperation: a structurally valid request the graph refuses,
	// currently only unfollowing oneself (the self edge is load-bearing).
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrConfiguration: the role table violates the single-default invariant.
	ErrConfiguration = errors.New("role table misconfigured")

	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
)
