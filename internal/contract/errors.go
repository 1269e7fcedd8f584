package contract

import "errors"

// Contract error taxonomy. Every entry-point failure maps to exactly one of
// these sentinels so that clients can distinguish, e.g., a fee problem from
// an authorization problem. All errors are terminal for the current call.
var (
	ErrAlreadyInitialized = errors.New("factory already initialized")
	ErrNotInitialized     = errors.New("factory not initialized")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidParameters  = errors.New("invalid parameters")
	ErrInsufficientFee    = errors.New("insufficient fee")
	ErrDeploymentFailed   = errors.New("token deployment failed")
	ErrMintFailed         = errors.New("token mint failed")
)

// Kind returns the stable machine-readable code for a contract error, or
// empty string if err is not part of the taxonomy.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyInitialized):
		return "ALREADY_INITIALIZED"
	case errors.Is(err, ErrNotInitialized):
		return "NOT_INITIALIZED"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidParameters):
		return "INVALID_PARAMETERS"
	case errors.Is(err, ErrInsufficientFee):
		return "INSUFFICIENT_FEE"
	case errors.Is(err, ErrDeploymentFailed):
		return "DEPLOYMENT_FAILED"
	case errors.Is(err, ErrMintFailed):
		return "MINT_FAILED"
	}
	return ""
}
