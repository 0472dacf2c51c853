package pool

import (
	"errors"
	"fmt"
)

// Error classes. Every operation failure wraps exactly one of these so
// callers (and the HTTP layer) can classify with errors.Is.
var (
	// ErrUnauthorized: caller lacks the required role or KYC standing.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidState: operation is not valid for the current status or time window.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidArgument: malformed input caught before any state change.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrResourceExhausted: balance or quarterly limit cannot cover the request.
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrNotFound: no live campaign under that id (deleted slots included).
	ErrNotFound = errors.New("campaign not found")
)

// Named failures the wire contract promises to indexers and clients.
var (
	ErrNotVerifiedCreator = fmt.Errorf("%w: caller is not a verified creator", ErrUnauthorized)
	ErrNotOwner           = fmt.Errorf("%w: caller is not the pool owner", ErrUnauthorized)
	ErrNotVoter           = fmt.Errorf("%w: caller does not hold the voter role", ErrUnauthorized)
	ErrNotCampaignCreator = fmt.Errorf("%w: caller is not the campaign creator", ErrUnauthorized)
	ErrKYCRequired        = fmt.Errorf("%w: amount above threshold requires kyc verification", ErrUnauthorized)

	ErrQuarterlyLimitExceeded = fmt.Errorf("%w: quarterly treasury limit exceeded", ErrResourceExhausted)
	ErrInsufficientBalance    = fmt.Errorf("%w: insufficient pool balance", ErrResourceExhausted)
)

// stateErrf builds an ErrInvalidState with a human-readable cause.
func stateErrf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// argErrf builds an ErrInvalidArgument with a human-readable cause.
func argErrf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
