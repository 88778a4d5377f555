package middleware

import "errors"

var (
	errMissingIdentity   = errors.New("no identity provided")
	errInvalidHeader     = errors.New("invalid authorization header format")
	errInvalidToken      = errors.New("invalid token claims")
	errUnexpectedSigning = errors.New("unexpected token signing method")
)
