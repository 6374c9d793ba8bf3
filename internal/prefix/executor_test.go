// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExecutePlanFilesystemOps(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "a", "b")
	file := filepath.Join(sub, "tweaks.reg")
	copied := filepath.Join(sub, "copy.reg")
	link := filepath.Join(sub, "link")

	p := &Plan{Ops: []Op{
		MkdirOp{Path: sub},
		WriteFileOp{Path: file, Data: []byte("data"), Mode: 0o644},
		CopyFileOp{Src: file, Dst: copied},
		SymlinkOp{Target: file, Link: link},
		RemoveOp{Path: file},
	}}
	if err := ExecutePlan(context.Background(), p, &fakeRunner{}); err != nil {
		t.Fatalf("ExecutePlan() error = %v", err)
	}

	if got, err := os.ReadFile(copied); err != nil || string(got) != "data" {
		t.Errorf("copied file = %q, %v", got, err)
	}
	if _, err := os.Lstat(link); err != nil {
		t.Errorf("symlink missing: %v", err)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Errorf("file not removed (err = %v)", err)
	}
}

func TestExecutePlanRemoveMissingFileIsFine(t *testing.T) {
	p := &Plan{Ops: []Op{
		RemoveOp{Path: filepath.Join(t.TempDir(), "nope")},
		RemoveTreeOp{Path: filepath.Join(t.TempDir(), "nope")},
	}}
	if err := ExecutePlan(context.Background(), p, &fakeRunner{}); err != nil {
		t.Errorf("ExecutePlan() error = %v", err)
	}
}

func TestExecutePlanSandboxForwardsKeep(t *testing.T) {
	root := t.TempDir()
	link := filepath.Join(root, "Temp")
	if err := os.Symlink(os.TempDir(), link); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	p := &Plan{Ops: []Op{SandboxOp{Root: root, Keep: []string{link}}}}
	if err := ExecutePlan(context.Background(), p, &fakeRunner{}); err != nil {
		t.Fatalf("ExecutePlan() error = %v", err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatalf("kept link missing: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Error("kept link was replaced during sandboxing")
	}
}

func TestExecutePlanStopsAtFirstFailure(t *testing.T) {
	runner := &fakeRunner{failOn: map[string]ExitCode{"wineserver": 2}}
	p := &Plan{Ops: []Op{
		RunOp{Argv: []string{"wineboot", "--init"}},
		RunOp{Argv: []string{"wineserver", "-w"}},
		RunOp{Argv: []string{"wine", "regedit"}},
	}}

	err := ExecutePlan(context.Background(), p, runner)
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("ExecutePlan() error = %v, want CommandError", err)
	}
	if cmdErr.Code != 2 || cmdErr.Argv[0] != "wineserver" {
		t.Errorf("CommandError = %+v, want wineserver exit 2", cmdErr)
	}
	if len(runner.calls) != 2 {
		t.Errorf("ran %d commands after failure, want 2", len(runner.calls))
	}
}

func TestExecutePlanInfrastructureFailure(t *testing.T) {
	r := &erroringRunner{err: errors.New("fork failed")}
	p := &Plan{Ops: []Op{RunOp{Argv: []string{"wineboot"}}}}

	err := ExecutePlan(context.Background(), p, r)
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("ExecutePlan() error = %v, want CommandError", err)
	}
	if !errors.Is(err, r.err) {
		t.Errorf("underlying error not preserved: %v", err)
	}
}

type erroringRunner struct{ err error }

func (r *erroringRunner) Run(context.Context, []string, []string) *Result {
	return &Result{ExitCode: 1, Error: r.err}
}

func (r *erroringRunner) LookPath(name string) (string, error) {
	return "", errors.New("not found")
}
