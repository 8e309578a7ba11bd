package post

import "errors"

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrUnknownPostType = errors.New("unknown post type")
	ErrInvalidStatus   = errors.New("invalid post status")
)

// ToErrorCode converts an error to an API error code.
func ToErrorCode(err error) string {
	switch err {
	case ErrPostNotFound:
		return "POST_NOT_FOUND"
	case ErrUnknownPostType:
		return "UNKNOWN_POST_TYPE"
	case ErrInvalidStatus:
		return "INVALID_STATUS"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts an error to an HTTP status code.
func ToHTTPStatus(err error) int {
	switch err {
	case ErrPostNotFound:
		return 404
	case ErrUnknownPostType, ErrInvalidStatus:
		return 400
	default:
		return 500
	}
}
