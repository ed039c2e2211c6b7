package pasetotoken

import (
	"errors"
	"fmt"
)

// ErrTokenExpired is distinct from ErrInvalidToken so the access-control
// layer can tell the client to log in again rather than returning a generic
// unauthorized.
var ErrTokenExpired = errors.New("token expired")

type ErrConfig struct{ Msg string }

func (e ErrConfig) Error() string { return "paseto config error: " + e.Msg }

type ErrInvalidToken struct{ Err error }

func (e ErrInvalidToken) Error() string { return fmt.Sprintf("invalid token: %v", e.Err) }
func (e ErrInvalidToken) Unwrap() error { return e.Err }
