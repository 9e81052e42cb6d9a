package exitcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// StatusError carries a child process exit status through the error chain.
// Callers that pass a terminal through to another program use it to exit
// with that program's status without printing an error of their own.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// Failure indicates a fatal error condition
	Failure = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// Interrupted indicates the run was cancelled by SIGINT or SIGTERM
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if errors.Is(err, context.Canceled) {
		return Interrupted
	}

	var status *StatusError
	if errors.As(err, &status) {
		return status.Code
	}

	errMsg := strings.ToLower(err.Error())

	// Flag and argument errors surfaced by the command parser
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "invalid argument") {
		return UsageError
	}
	if strings.Contains(errMsg, "missing required flags") {
		return UsageError
	}

	return Failure
}

// Description returns a human-readable description of an exit code
func Description(code int) string {
	switch code {
	case Success:
		return "Success"
	case Failure:
		return "Fatal error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
