package service

import "errors"

var (
	ErrAccessDenied = errors.New("access denied")
	ErrInvalidInput = errors.New("invalid input")
)

// Viewer is the authenticated caller.
type Viewer struct {
	UserID string
	Role   string
}
