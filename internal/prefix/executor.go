// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// ExecutePlan performs the plan's operations in order, stopping at the
// first failure. External commands go through r; filesystem steps run
// directly. No rollback is attempted: the caller must delete the prefix
// directory to retry cleanly.
func ExecutePlan(ctx context.Context, p *Plan, r Runner) error {
	for _, op := range p.Ops {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("prefix creation canceled: %w", err)
		}
		log.Debug("executing", "op", op.Describe())
		if err := executeOp(ctx, op, r); err != nil {
			return err
		}
	}
	return nil
}

func executeOp(ctx context.Context, op Op, r Runner) error {
	switch op := op.(type) {
	case RunOp:
		res := r.Run(ctx, op.Argv, op.Env)
		if res.Error != nil {
			return &CommandError{Argv: op.Argv, Code: res.ExitCode, Err: res.Error}
		}
		if !res.ExitCode.IsSuccess() {
			return &CommandError{Argv: op.Argv, Code: res.ExitCode}
		}
		return nil
	case MkdirOp:
		if err := os.MkdirAll(op.Path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", op.Path, err)
		}
		return nil
	case WriteFileOp:
		if err := os.WriteFile(op.Path, op.Data, op.Mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", op.Path, err)
		}
		return nil
	case RemoveOp:
		if err := os.Remove(op.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", op.Path, err)
		}
		return nil
	case RemoveTreeOp:
		if err := os.RemoveAll(op.Path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", op.Path, err)
		}
		return nil
	case SymlinkOp:
		if err := os.Symlink(op.Target, op.Link); err != nil {
			return fmt.Errorf("failed to symlink %s -> %s: %w", op.Link, op.Target, err)
		}
		return nil
	case CopyFileOp:
		return copyFile(op.Src, op.Dst)
	case NvapiLibsOp:
		return installNvapiLibs(ctx, op)
	case SandboxOp:
		return sandboxPrefix(op.Root, op.Keep)
	default:
		return fmt.Errorf("unknown plan operation %T", op)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to copy to %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to copy to %s: %w", dst, err)
	}
	return nil
}
