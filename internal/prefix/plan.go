// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// tweaksRegName is the transient .reg file written into the prefix for the
// single registry import, removed after regedit consumes it.
const tweaksRegName = "mkwineprefix-tweaks.reg"

type (
	// Op is one side-effecting step of a prefix creation plan. Concrete
	// types describe the action declaratively; ExecutePlan performs them.
	Op interface {
		// Describe returns a short human-readable summary for logging.
		Describe() string
	}

	// RunOp executes an external command.
	RunOp struct {
		Argv []string
		// Env is the full child environment; nil inherits the process env.
		Env []string
	}

	// MkdirOp creates a directory and any missing parents.
	MkdirOp struct {
		Path string
	}

	// WriteFileOp writes a file with the given contents.
	WriteFileOp struct {
		Path string
		Data []byte
		Mode os.FileMode
	}

	// RemoveOp removes a single file if it exists.
	RemoveOp struct {
		Path string
	}

	// RemoveTreeOp removes a directory tree if it exists.
	RemoveTreeOp struct {
		Path string
	}

	// SymlinkOp creates a symlink at Link pointing to Target.
	SymlinkOp struct {
		Target string
		Link   string
	}

	// CopyFileOp copies a regular file.
	CopyFileOp struct {
		Src string
		Dst string
	}

	// NvapiLibsOp downloads the nvidia-libs release tarball and extracts
	// the DLLs for each requested architecture into the prefix.
	NvapiLibsOp struct {
		URL string
		// TarPrefix is the top-level directory inside the tarball.
		TarPrefix string
		// X32DLLs are extracted from x32/ into DestX32.
		X32DLLs []string
		DestX32 string
		// X64DLLs are extracted from x64/ into DestX64; empty for
		// 32-bit prefixes.
		X64DLLs []string
		DestX64 string
	}

	// SandboxOp strips every symlink under Root that points outside Root,
	// except the links listed in Keep.
	SandboxOp struct {
		Root string
		// Keep lists symlinks that must survive sandboxing, such as the
		// tmpfs-backed temp directories.
		Keep []string
	}

	// ToolPaths carries resolved helper binaries. Empty fields mean the
	// tool is not installed; BuildPlan omits the dependent steps.
	ToolPaths struct {
		Winetricks       string
		WineasioRegister string
	}

	// Plan is the ordered operation list for one prefix creation run,
	// produced by BuildPlan without touching the filesystem.
	Plan struct {
		Target  string
		Env     []string
		Ops     []Op
		Exports []EnvVar

		// SkippedWinetricks is set when tricks were requested but the
		// winetricks binary is not installed.
		SkippedWinetricks []string
		// SkippedASIO is set when --asio was given but wineasio-register
		// is not installed.
		SkippedASIO bool
	}
)

// Describe implements Op.
func (o RunOp) Describe() string { return "run " + QuoteCommand(o.Argv) }

// Describe implements Op.
func (o MkdirOp) Describe() string { return "mkdir -p " + o.Path }

// Describe implements Op.
func (o WriteFileOp) Describe() string { return "write " + o.Path }

// Describe implements Op.
func (o RemoveOp) Describe() string { return "rm " + o.Path }

// Describe implements Op.
func (o RemoveTreeOp) Describe() string { return "rm -r " + o.Path }

// Describe implements Op.
func (o SymlinkOp) Describe() string { return fmt.Sprintf("ln -s %s %s", o.Target, o.Link) }

// Describe implements Op.
func (o CopyFileOp) Describe() string { return fmt.Sprintf("cp %s %s", o.Src, o.Dst) }

// Describe implements Op.
func (o NvapiLibsOp) Describe() string { return "install nvidia-libs from " + o.URL }

// Describe implements Op.
func (o SandboxOp) Describe() string { return "sandbox " + o.Root }

// BuildPlan maps the validated options onto the ordered operation list.
// It is a pure mapping: no filesystem access, no process execution.
//
// Step order is fixed: prefix skeleton (wineboot + wineserver), registry
// import, tmpfs symlinks, winetricks, dxvk-nvapi install, sandboxing,
// wineasio registration. Re-running against a partially created prefix
// is unsupported, so nothing here is conditional on existing state.
func BuildPlan(opts *Options, tools ToolPaths) *Plan {
	o := opts.withDefaults()
	target := o.Target()
	env := wineEnviron(o)

	p := &Plan{
		Target: target,
		Env:    env,
		Exports: []EnvVar{
			{Name: "WINEPREFIX", Value: target},
		},
	}

	p.add(MkdirOp{Path: target})
	p.add(RunOp{Argv: []string{"wineboot", "--init"}, Env: env})
	p.add(RunOp{Argv: []string{"wineserver", "-w"}, Env: env})

	if doc := buildRegistry(o); !doc.Empty() {
		regPath := filepath.Join(target, tweaksRegName)
		p.add(WriteFileOp{Path: regPath, Data: []byte(doc.Render()), Mode: 0o644})
		p.add(RunOp{Argv: []string{"wine", "regedit", "/S", regPath}, Env: env})
		p.add(RemoveOp{Path: regPath})
	}

	if o.Tmpfs {
		addTmpfsOps(p, target)
	}

	if verbs := winetricksVerbs(o); len(verbs) > 0 {
		if tools.Winetricks == "" {
			p.SkippedWinetricks = verbs
		} else {
			argv := []string{
				tools.Winetricks,
				"--force",
				"--country=" + o.WinetricksCountry,
				"--unattended",
			}
			p.add(RunOp{Argv: append(argv, verbs...), Env: env})
		}
	}

	if o.NVAPI {
		addNvapiOps(p, o, target)
	}

	if o.Sandbox {
		op := SandboxOp{Root: target}
		if o.Tmpfs {
			// The temp links just created on purpose must survive the
			// symlink stripping.
			op.Keep = tmpfsTempDirs(target)
		}
		p.add(op)
	}

	if o.ASIO {
		if tools.WineasioRegister == "" {
			p.SkippedASIO = true
		} else {
			p.add(RunOp{Argv: []string{tools.WineasioRegister}, Env: env})
		}
	}

	return p
}

func (p *Plan) add(op Op) { p.Ops = append(p.Ops, op) }

// tmpfsTempDirs returns the two Windows temp directories replaced with
// symlinks when --tmpfs is given.
func tmpfsTempDirs(target string) []string {
	return []string{
		filepath.Join(target, "drive_c", "users", currentUsername(), "Temp"),
		filepath.Join(target, "drive_c", "windows", "temp"),
	}
}

// addTmpfsOps replaces the two Windows temp directories with symlinks into
// the host temp dir, which is tmpfs-backed on typical Linux setups. This
// runs after wineboot so the skeleton exists; mounting an actual tmpfs
// would need privileges the tool does not assume.
func addTmpfsOps(p *Plan, target string) {
	hostTemp := os.TempDir()
	dirs := tmpfsTempDirs(target)

	for _, dir := range dirs {
		p.add(RemoveTreeOp{Path: dir})
	}
	for _, dir := range dirs {
		p.add(SymlinkOp{Target: hostTemp, Link: dir})
	}
}

// addNvapiOps appends the dxvk-nvapi installation steps: vkd3d-proton
// setup, the nvidia-libs DLL drop, and the host nvngx copies. The DLL
// overrides themselves ride in the registry import.
func addNvapiOps(p *Plan, o *Options, target string) {
	p.add(RunOp{Argv: []string{"setup_vkd3d_proton.sh", "install"}, Env: p.Env})

	op := NvapiLibsOp{
		URL:       nvidiaLibsURL(),
		TarPrefix: nvidiaLibsTarPrefix(),
		X32DLLs:   nvapiX32DLLs,
		DestX32:   filepath.Join(target, "drive_c", "windows", "syswow64"),
	}
	if o.Arch != ArchWin32 {
		op.X64DLLs = nvapiX64DLLs
		op.DestX64 = filepath.Join(target, "drive_c", "windows", "system32")
	}
	p.add(op)

	system32 := filepath.Join(target, "drive_c", "windows", "system32")
	for _, name := range []string{"nvngx.dll", "_nvngx.dll"} {
		p.add(CopyFileOp{
			Src: filepath.Join(hostNvidiaWineDir, name),
			Dst: filepath.Join(system32, name),
		})
	}
}

// winetricksVerbs assembles the winetricks argument list: user-supplied
// tricks first in their given order (deduplicated), derived verbs after,
// sorted. Version verbs and vd= settings are filtered from the user list
// because both are handled through the registry import.
func winetricksVerbs(o *Options) []string {
	seen := make(map[string]bool)
	var verbs []string
	for _, t := range o.Tricks {
		if t == "" || seen[t] || isVersionVerb(t) || strings.HasPrefix(t, "vd=") {
			continue
		}
		if o.Arch == ArchWin32 && is64OnlyVerb(t) {
			continue
		}
		seen[t] = true
		verbs = append(verbs, t)
	}

	var derived []string
	if o.NVAPI {
		derived = append(derived, "dxvk")
	}
	sort.Strings(derived)
	for _, t := range derived {
		if seen[t] || (o.Arch == ArchWin32 && is64OnlyVerb(t)) {
			continue
		}
		seen[t] = true
		verbs = append(verbs, t)
	}
	return verbs
}

// winetricksVersionVerbs are the winetricks names for the Windows versions
// this tool sets through the registry instead.
var winetricksVersionVerbs = map[string]bool{
	"win11": true, "win10": true, "vista": true, "win2k3": true,
	"win7": true, "win8": true, "winxp": true, "win81": true,
	"win2k": true, "win98": true, "win95": true,
}

func isVersionVerb(verb string) bool { return winetricksVersionVerbs[verb] }

// is64OnlyVerb reports whether a verb installs 64-bit-only components and
// must never run in a 32-bit prefix.
func is64OnlyVerb(verb string) bool {
	return strings.HasSuffix(verb, "64")
}

// currentUsername resolves the Windows-side user directory name the same
// way Wine does: $USER, falling back to $USERNAME, then "user".
func currentUsername() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u := os.Getenv("USERNAME"); u != "" {
		return u
	}
	return "user"
}
