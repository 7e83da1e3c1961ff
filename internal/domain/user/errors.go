package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid token")
	ErrMissingClaims           = errors.New("token claims are missing or invalid")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrManagerAccessRequired   = errors.New("admin or principal access required")
)
