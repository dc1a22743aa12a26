package signature

import "errors"

var (
	ErrMissingSignature = errors.New("missing_signature")
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrInvalidTimestamp = errors.New("invalid_timestamp")
	ErrStaleTimestamp   = errors.New("stale_timestamp")
)
