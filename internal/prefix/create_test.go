// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

type (
	// fakeRunner records invocations and returns scripted results.
	fakeRunner struct {
		// calls holds every argv passed to Run, in order.
		calls [][]string
		// failOn maps a command basename to the exit code it should
		// return; unlisted commands succeed.
		failOn map[string]ExitCode
		// tools are the binaries LookPath resolves.
		tools map[string]string
	}

	// fakeRegistrar records registration calls.
	fakeRegistrar struct {
		names   []string
		targets []string
		err     error
	}
)

func (r *fakeRunner) Run(_ context.Context, argv []string, _ []string) *Result {
	r.calls = append(r.calls, argv)
	if code, ok := r.failOn[filepath.Base(argv[0])]; ok {
		return &Result{ExitCode: code}
	}
	return &Result{}
}

func (r *fakeRunner) LookPath(name string) (string, error) {
	if path, ok := r.tools[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("%s: executable file not found", name)
}

func (f *fakeRegistrar) Register(_ context.Context, name, target string) error {
	f.names = append(f.names, name)
	f.targets = append(f.targets, target)
	return f.err
}

func (r *fakeRunner) commandNames() []string {
	var names []string
	for _, argv := range r.calls {
		names = append(names, filepath.Base(argv[0]))
	}
	return names
}

func TestCreateSuccess(t *testing.T) {
	root := t.TempDir()
	runner := &fakeRunner{}
	creator := &Creator{Runner: runner}

	result, err := creator.Create(context.Background(), &Options{Name: "games", Root: root})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	want := filepath.Join(root, "games")
	if result.Target != want {
		t.Errorf("Target = %q, want %q", result.Target, want)
	}
	if len(result.Exports) != 1 || result.Exports[0].Name != "WINEPREFIX" {
		t.Errorf("Exports = %v, want single WINEPREFIX", result.Exports)
	}

	names := runner.commandNames()
	if len(names) < 3 {
		t.Fatalf("commands run = %v, want wineboot, wineserver and regedit", names)
	}
	if names[0] != "wineboot" || names[1] != "wineserver" {
		t.Errorf("commands run = %v, want wineboot then wineserver first", names)
	}

	// The transient .reg file must be gone after the import.
	if _, err := os.Stat(filepath.Join(want, tweaksRegName)); !os.IsNotExist(err) {
		t.Errorf("tweaks file left behind (stat err = %v)", err)
	}
}

func TestCreateInvalidOptionsRunNothing(t *testing.T) {
	runner := &fakeRunner{}
	creator := &Creator{Runner: runner}

	_, err := creator.Create(context.Background(), &Options{
		Name: "games", Root: t.TempDir(), WindowsVersion: "99",
	})
	if !errors.Is(err, ErrInvalidWindowsVersion) {
		t.Fatalf("Create() error = %v, want invalid windows version", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("commands run for invalid options: %v", runner.calls)
	}
}

func TestCreateExistingTarget(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "games"), 0o755); err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{}
	creator := &Creator{Runner: runner}

	_, err := creator.Create(context.Background(), &Options{Name: "games", Root: root})
	if !errors.Is(err, ErrPrefixExists) {
		t.Fatalf("Create() error = %v, want prefix exists", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("commands run for existing target: %v", runner.calls)
	}
}

func TestCreateCommandFailureAborts(t *testing.T) {
	runner := &fakeRunner{failOn: map[string]ExitCode{"wineboot": 53}}
	creator := &Creator{Runner: runner}

	_, err := creator.Create(context.Background(), &Options{Name: "games", Root: t.TempDir()})

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Create() error = %v, want CommandError", err)
	}
	if cmdErr.Code != 53 {
		t.Errorf("Code = %d, want 53", cmdErr.Code)
	}
	if names := runner.commandNames(); len(names) != 1 || names[0] != "wineboot" {
		t.Errorf("commands run = %v, want only wineboot before the abort", names)
	}
}

func TestCreateWinetricksFailureAborts(t *testing.T) {
	runner := &fakeRunner{
		failOn: map[string]ExitCode{"winetricks": 1},
		tools:  map[string]string{"winetricks": "/usr/bin/winetricks"},
	}
	creator := &Creator{Runner: runner}

	_, err := creator.Create(context.Background(), &Options{
		Name: "games", Root: t.TempDir(), Tricks: []string{"corefonts"},
	})

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Create() error = %v, want CommandError", err)
	}
	if cmdErr.Argv[0] != "/usr/bin/winetricks" {
		t.Errorf("failing command = %v, want winetricks", cmdErr.Argv)
	}
}

func TestCreateCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	creator := &Creator{Runner: &fakeRunner{}}
	_, err := creator.Create(ctx, &Options{Name: "games", Root: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Create() error = %v, want context.Canceled", err)
	}
}

func TestCreateRegistersPrefix(t *testing.T) {
	root := t.TempDir()
	registrar := &fakeRegistrar{}
	creator := &Creator{Runner: &fakeRunner{}, Registrar: registrar}

	if _, err := creator.Create(context.Background(), &Options{Name: "games", Root: root}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(registrar.names) != 1 || registrar.names[0] != "games" {
		t.Errorf("registered names = %v, want [games]", registrar.names)
	}
	if want := filepath.Join(root, "games"); len(registrar.targets) != 1 || registrar.targets[0] != want {
		t.Errorf("registered targets = %v, want [%s]", registrar.targets, want)
	}
}

func TestCreateRegistrarFailure(t *testing.T) {
	registrar := &fakeRegistrar{err: errors.New("database locked")}
	creator := &Creator{Runner: &fakeRunner{}, Registrar: registrar}

	_, err := creator.Create(context.Background(), &Options{Name: "games", Root: t.TempDir()})
	if err == nil {
		t.Fatal("Create() = nil error, want registrar failure")
	}
	if !errors.Is(err, registrar.err) {
		t.Errorf("Create() error = %v, want wrapped %v", err, registrar.err)
	}
}

func TestCreateSkipsMissingTools(t *testing.T) {
	runner := &fakeRunner{}
	creator := &Creator{Runner: runner}

	_, err := creator.Create(context.Background(), &Options{
		Name: "games", Root: t.TempDir(),
		Tricks: []string{"corefonts"}, ASIO: true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	for _, name := range runner.commandNames() {
		if name == "winetricks" || name == "wineasio-register" {
			t.Errorf("missing tool %q was still invoked", name)
		}
	}
}
