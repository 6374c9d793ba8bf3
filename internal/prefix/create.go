// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"mkwineprefix/internal/issue"
)

// ErrPrefixExists is the sentinel error wrapped by PrefixExistsError.
var ErrPrefixExists = errors.New("prefix already exists")

type (
	// PrefixExistsError is returned when the target prefix directory
	// already exists. It wraps ErrPrefixExists for errors.Is().
	PrefixExistsError struct {
		Target string
	}

	// Registrar records a freshly created prefix in an external catalog
	// (Q4Wine). A nil Registrar disables registration.
	Registrar interface {
		Register(ctx context.Context, name, target string) error
	}

	// Creator wires the collaborators needed to create a prefix.
	Creator struct {
		Runner    Runner
		Registrar Registrar
	}

	// CreateResult is what a successful run hands back to the CLI layer:
	// the prefix path and the environment exports to print for eval.
	CreateResult struct {
		Target  string
		Exports []EnvVar
	}
)

// Error implements the error interface.
func (e *PrefixExistsError) Error() string {
	return fmt.Sprintf("prefix already exists: %s", e.Target)
}

// Unwrap returns ErrPrefixExists so callers can use errors.Is.
func (e *PrefixExistsError) Unwrap() error { return ErrPrefixExists }

// Create validates the options, builds the operation plan, and executes
// it. No side effect happens before validation passes and the target is
// confirmed absent. On failure the partially created prefix is left in
// place; the caller must delete it to retry.
func (c *Creator) Create(ctx context.Context, opts *Options) (*CreateResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if opts.Root == "" {
		root, err := DefaultRoot()
		if err != nil {
			return nil, err
		}
		opts.Root = root
	}
	target := opts.Target()
	if _, err := os.Lstat(target); err == nil {
		return nil, &PrefixExistsError{Target: target}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check %s: %w", target, err)
	}

	if os.Getenv("DISPLAY") == "" || os.Getenv("XAUTHORITY") == "" {
		log.Warn("Wine will likely fail to run since DISPLAY or XAUTHORITY are not in the environment.")
	}

	plan := BuildPlan(opts, c.lookupTools(opts))
	if len(plan.SkippedWinetricks) > 0 {
		log.Warn("winetricks is not installed, skipping tricks", "tricks", plan.SkippedWinetricks)
	}
	if plan.SkippedASIO {
		log.Warn("skipping ASIO setup because wineasio-register is not in PATH")
	}

	if err := ExecutePlan(ctx, plan, c.Runner); err != nil {
		return nil, err
	}

	if c.Registrar != nil {
		if err := c.Registrar.Register(ctx, opts.Name, target); err != nil {
			return nil, issue.WrapWithContext(err, "register prefix with Q4Wine", target)
		}
	}

	return &CreateResult{Target: plan.Target, Exports: plan.Exports}, nil
}

// lookupTools resolves optional helper binaries through the Runner so
// tests control tool availability.
func (c *Creator) lookupTools(opts *Options) ToolPaths {
	var tools ToolPaths
	if path, err := c.Runner.LookPath("winetricks"); err == nil {
		tools.Winetricks = path
	}
	if opts.ASIO {
		if path, err := c.Runner.LookPath("wineasio-register"); err == nil {
			tools.WineasioRegister = path
		}
	}
	return tools
}
