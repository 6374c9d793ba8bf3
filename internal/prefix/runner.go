// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/charmbracelet/log"
)

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// Result is the outcome of one external command invocation.
	Result struct {
		ExitCode ExitCode
		// Error is set only for infrastructure failures (command not
		// found, context canceled), never for plain non-zero exits.
		Error error
	}

	// Runner abstracts external process execution so tests can substitute
	// a fake that records invocations instead of spawning real binaries.
	Runner interface {
		// Run executes argv to completion. A nil env inherits the
		// process environment; otherwise env is the full environment.
		Run(ctx context.Context, argv []string, env []string) *Result

		// LookPath reports the path of an executable, like exec.LookPath.
		LookPath(name string) (string, error)
	}

	// ExecRunner runs commands with os/exec. Child stdout and stderr both
	// go to Output so the caller's stdout stays reserved for the final
	// export lines.
	ExecRunner struct {
		Output io.Writer
	}

	// CommandError is returned when an external command fails. The process
	// exit code of the tool mirrors Code.
	CommandError struct {
		Argv []string
		Code ExitCode
		Err  error
	}
)

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %q failed: %v", e.Argv[0], e.Err)
	}
	return fmt.Sprintf("command %q failed: exit status %s", e.Argv[0], e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *CommandError) Unwrap() error { return e.Err }

// NewExecRunner creates a Runner backed by os/exec writing child output to w.
func NewExecRunner(w io.Writer) *ExecRunner {
	return &ExecRunner{Output: w}
}

// Run executes argv, blocking until the command exits.
func (r *ExecRunner) Run(ctx context.Context, argv []string, env []string) *Result {
	if len(argv) == 0 {
		return &Result{ExitCode: 1, Error: errors.New("empty command")}
	}
	log.Debug("running", "cmd", QuoteCommand(argv))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if env != nil {
		cmd.Env = env
	}
	cmd.Stdout = r.Output
	cmd.Stderr = r.Output

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Result{ExitCode: ExitCode(exitErr.ExitCode())}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to execute %q: %w", argv[0], err)}
	}
	return &Result{}
}

// LookPath reports the path of an executable in PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
