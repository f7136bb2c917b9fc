package cli

import (
	"errors"

	"github.com/yaklabco/gocallout/internal/configloader"
	"github.com/yaklabco/gocallout/pkg/fsutil"
	"github.com/yaklabco/gocallout/pkg/runner"
)

// Exit codes for gocallout.
const (
	// ExitSuccess indicates every file rendered.
	ExitSuccess = 0

	// ExitRenderFailures indicates the run completed but some files failed.
	ExitRenderFailures = 1

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
	// ErrRenderFailures is returned when one or more files failed to render.
	ErrRenderFailures = errors.New("some files failed to render")

	// ErrInvalidUsage is returned for bad flag combinations.
	ErrInvalidUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code of a completed run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitRenderFailures
	}
	return ExitSuccess
}

// ExitCodeFromError maps an error returned by a command to an exit code.
func ExitCodeFromError(err error) int {
	var validationErr *configloader.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrRenderFailures):
		return ExitRenderFailures
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
