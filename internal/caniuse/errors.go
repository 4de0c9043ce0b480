package caniuse

import "errors"

// Failure kinds. Errors returned by this package wrap exactly one of these,
// so callers branch with errors.Is.
var (
	ErrUsage     = errors.New("invalid usage")
	ErrNetwork   = errors.New("network error")
	ErrParse     = errors.New("unexpected response")
	ErrNoResults = errors.New("no results")
)
