package app

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// exitError carries the process exit code for an error.
type exitError struct {
	Code int
	Err  error
}

func (e exitError) Error() string {
	if e.Err == nil {
		return "exit"
	}
	return e.Err.Error()
}

func (e exitError) Unwrap() error {
	return e.Err
}

func exitWithError(code int, err error) error {
	return exitError{Code: code, Err: err}
}

func usageErrorf(format string, args ...any) error {
	return exitError{Code: ExitUsage, Err: fmt.Errorf(format, args...)}
}

func asExitError(err error) (exitError, bool) {
	var ee exitError
	if err == nil || !errors.As(err, &ee) {
		return exitError{}, false
	}
	return ee, true
}
