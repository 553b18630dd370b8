package batch

import "errors"

var (
	// ErrMatcherRequired is returned by NewRunner when given a nil matcher.
	ErrMatcherRequired = errors.New("matcher is required")
)
