package service

import "errors"

// Sentinel errors for session operations.
var (
	ErrSessionNotStarted = errors.New("session not started")
	ErrPushUnsupported   = errors.New("detector does not accept pushed landmarks")
)
