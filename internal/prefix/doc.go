// SPDX-License-Identifier: MPL-2.0

// Package prefix implements Wine prefix creation as a configuration-to-action
// mapping.
//
// Options holds one typed field per CLI flag. BuildPlan is a pure function
// turning validated Options into an ordered operation list (Plan) without
// touching the filesystem, so the mapping can be unit-tested in isolation.
// ExecutePlan performs the operations, sending external commands through the
// Runner interface; tests substitute a recording fake for the os/exec-backed
// ExecRunner.
//
// The fixed step order is: prefix skeleton via wineboot/wineserver, one
// generated .reg import carrying every registry tweak (Windows version
// markers, DPI, virtual desktop, DLL overrides, fonts), tmpfs temp-dir
// symlinks, a single winetricks invocation, dxvk-nvapi installation,
// sandbox symlink stripping, and wineasio registration. Any external
// command exiting non-zero aborts the remaining sequence and the tool's
// exit code mirrors it.
package prefix
