package cli

import (
	"errors"

	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/runner"
)

// Exit codes for mdmath.
const (
	// ExitSuccess indicates successful execution with no failures.
	ExitSuccess = 0

	// ExitCheckErrors indicates error diagnostics, unreadable files or
	// golden traces that do not match.
	ExitCheckErrors = 1

	// ExitCheckWarnings indicates warnings under --strict.
	ExitCheckWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrIssuesFound signals a failing check run. It is not logged.
	ErrIssuesFound = errors.New("issues found")

	// ErrWarningsFound signals warnings under --strict. It is not logged.
	ErrWarningsFound = errors.New("warnings found")

	// ErrConfig wraps configuration loading and validation failures.
	ErrConfig = errors.New("invalid configuration")

	// ErrUsage wraps bad flag values and arguments.
	ErrUsage = errors.New("invalid usage")

	// ErrIO wraps failures reading sources or writing output.
	ErrIO = errors.New("i/o error")
)

// ExitCodeFromResult determines the exit code of a check run.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}
	if result.HasFailures() {
		return ExitCheckErrors
	}
	if strict && result.Stats.DiagnosticsBySeverity[config.SeverityWarning] > 0 {
		return ExitCheckWarnings
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrIssuesFound):
		return ExitCheckErrors
	case errors.Is(err, ErrWarningsFound):
		return ExitCheckWarnings
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrIO):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsSilent reports whether err only carries an exit status and should not be
// logged.
func IsSilent(err error) bool {
	return errors.Is(err, ErrIssuesFound) || errors.Is(err, ErrWarningsFound)
}

func errorForExitCode(code int) error {
	switch code {
	case ExitCheckErrors:
		return ErrIssuesFound
	case ExitCheckWarnings:
		return ErrWarningsFound
	default:
		return nil
	}
}
