/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1002

	// ErrOriginNotAllowed indicates that the request Origin header is not in the allow list.
	ErrOriginNotAllowed = 1003
)

// 3xxx: Session and Security Errors
const (
	// ErrTokenRequired indicates that a connection token is required but was not supplied.
	ErrTokenRequired = 3001

	// ErrTokenInvalid indicates that the supplied connection token failed validation.
	ErrTokenInvalid = 3002

	// ErrUnauthorized indicates that the request lacks a valid authenticated session.
	ErrUnauthorized = 3003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown indicates an unclassified internal server error.
	ErrUnknown = 5001

	// ErrStoreUnavailable indicates that the persistence collaborator could not be reached.
	ErrStoreUnavailable = 5002
)
