package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested resource does not exist: a
// business slug with no row, or a city slug that resolves to no group.
// A miss is a normal outcome, not a system failure — handlers map it to 404.
var ErrNotFound = errors.New("not found")

// FetchRangeError reports a failed batch request inside a paged fetch.
// The whole fetch is abandoned when any range fails; accumulated partial
// results are discarded so consumers never render a partial directory.
type FetchRangeError struct {
	Range BatchRange
	Err   error
}

func (e *FetchRangeError) Error() string {
	return fmt.Sprintf("fetch rows %s: %v", e.Range, e.Err)
}

func (e *FetchRangeError) Unwrap() error {
	return e.Err
}
