package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrLoginInUse         = errors.New("a user with this login already exists")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrCannotLogIn        = errors.New("this account cannot log in")
)

// ToErrorCode converts an error to an API error code.
func ToErrorCode(err error) string {
	switch err {
	case ErrUserNotFound:
		return "USER_NOT_FOUND"
	case ErrLoginInUse:
		return "LOGIN_IN_USE"
	case ErrInvalidCredentials, ErrCannotLogIn:
		return "INVALID_CREDENTIALS"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts an error to an HTTP status code.
func ToHTTPStatus(err error) int {
	switch err {
	case ErrUserNotFound:
		return 404
	case ErrLoginInUse:
		return 409
	case ErrInvalidCredentials, ErrCannotLogIn:
		return 401
	default:
		return 500
	}
}
