// Package exitcode defines the kboard process exit status.
package exitcode

const (
	// Success: the command did what was asked.
	Success = 0

	// UserError: bad flags or arguments, a board, list or card reference
	// that resolves to nothing or to several items, a drop index out of
	// range, or any other 4xx rejection from the backend.
	UserError = 1

	// AuthError: no stored token, an expired one, or a 401/403 rejection.
	AuthError = 2

	// BackendError: no response, a 5xx rejection, or a request that could
	// not be built or decoded.
	BackendError = 3
)
