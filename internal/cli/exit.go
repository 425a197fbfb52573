package cli

import (
	stderrors "errors"
)

// Process exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitConflicts = 2
)

// exitError ends a command with a status code after its output has been
// rendered. It carries no message of its own.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	switch e.code {
	case ExitConflicts:
		return "conflicts found"
	default:
		return "command failed"
	}
}

// ExitCode maps the error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if stderrors.As(err, &ee) {
		return ee.code
	}
	return ExitFailure
}

func isRendered(err error) bool {
	var ee *exitError
	return stderrors.As(err, &ee)
}

// runExit is the exit error for a collection update report.
func runExit(failed bool) error {
	if failed {
		return &exitError{code: ExitFailure}
	}
	return nil
}

// syncExit is the exit error for a sync report: failures win over conflicts.
func syncExit(failed, conflicts bool) error {
	switch {
	case failed:
		return &exitError{code: ExitFailure}
	case conflicts:
		return &exitError{code: ExitConflicts}
	default:
		return nil
	}
}
