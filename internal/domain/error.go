package domain

import "github.com/cockroachdb/errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyExists   = errors.New("entity already exists")

	// Commerce errors
	ErrPreconditionFailed = errors.New("user profile is incomplete")
	ErrCheckoutInProgress = errors.New("checkout already in progress for this plan")
	// ErrInvariantViolation is logged and self-corrected, never returned.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrGatewayFault is the only gateway error surfaced to callers; details are logged.
	ErrGatewayFault   = errors.New("payment processing failed")
	ErrUnknownGateway = errors.New("unknown payment gateway")

	// Storage errors
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// NotFoundf marks a formatted error as ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}
