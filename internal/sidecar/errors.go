package sidecar

import (
	"errors"
	"fmt"
	"os/exec"

	foundationerrors "git.home.luguber.info/inful/sitepack/internal/foundation/errors"
)

var (
	// ErrExecutableNotFound means neither a usable yarn nor npm could be located.
	ErrExecutableNotFound = errors.New("package manager executable not found")

	// ErrInstallFailed means the dependency install exited non-zero.
	ErrInstallFailed = errors.New("dependency install failed")

	// ErrBuildFailed means the one-shot bundler build exited non-zero.
	ErrBuildFailed = errors.New("bundler build failed")

	// ErrSpawnFailed means the bundler watch process could not be started.
	ErrSpawnFailed = errors.New("bundler watcher spawn failed")
)

// ExitCode returns the exit status carried by err, or -1 when err does not
// come from a process that exited.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func executableNotFound(dir string, cause error) error {
	return foundationerrors.NotFoundError("can not locate 'npm' executable").
		WithCause(fmt.Errorf("%w: %w", ErrExecutableNotFound, cause)).
		WithContext("sidecar_dir", dir).
		Build()
}

func processFailed(sentinel error, message string, argv []string, cause error) error {
	return foundationerrors.ProcessError(message).
		WithCause(fmt.Errorf("%w: %w", sentinel, cause)).
		WithContext("command", argv).
		WithContext("exit_code", ExitCode(cause)).
		Build()
}
