package cmdutil

import (
	"errors"
	"fmt"
	"strconv"
)

// FlagError indicates bad flags or arguments. Main prints the usage after it.
type FlagError struct {
	err error
}

func (e *FlagError) Error() string { return e.err.Error() }
func (e *FlagError) Unwrap() error { return e.err }

// FlagErrorf creates a FlagError with a formatted message.
func FlagErrorf(format string, args ...any) error {
	return &FlagError{err: fmt.Errorf(format, args...)}
}

// IsFlagError reports whether err came from argument parsing.
func IsFlagError(err error) bool {
	var fe *FlagError
	return errors.As(err, &fe)
}

// ParseAmount parses a positive count argument.
func ParseAmount(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, FlagErrorf("amount must be a positive integer, got %q", arg)
	}
	return n, nil
}
