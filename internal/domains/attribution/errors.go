package attribution

import (
	"errors"
	"net/http"
)

var (
	ErrUnsupportedPostType = errors.New("authorship is not enabled for this post type")
	ErrInvalidAuthors      = errors.New("one or more user IDs are not valid")
	ErrPersistence         = errors.New("failed to persist authorship data")
)

// ToErrorCode maps domain errors to API error codes.
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedPostType):
		return "ATTR_001"
	case errors.Is(err, ErrInvalidAuthors):
		return "ATTR_002"
	case errors.Is(err, ErrPersistence):
		return "ATTR_003"
	default:
		return "SYS_001"
	}
}

// ToHTTPStatus maps domain errors to HTTP status codes.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnsupportedPostType), errors.Is(err, ErrInvalidAuthors):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
