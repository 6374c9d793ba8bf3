// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// EnvVar is one environment variable assignment produced by a run.
type EnvVar struct {
	Name  string
	Value string
}

// ExportLine renders the variable as a shell `export` statement with the
// value quoted for POSIX shells.
func (v EnvVar) ExportLine() string {
	return fmt.Sprintf("export %s=%s", v.Name, ShellQuote(v.Value))
}

// wineEnviron builds the environment for every wine/wineboot invocation.
// Only a fixed set of host variables is forwarded so stray Wine settings
// from the caller's environment cannot leak into prefix creation.
func wineEnviron(o *Options) []string {
	env := []string{
		"DISPLAY=" + os.Getenv("DISPLAY"),
		"PATH=" + os.Getenv("PATH"),
		"WINEPREFIX=" + o.Target(),
		"XAUTHORITY=" + os.Getenv("XAUTHORITY"),
	}

	debug := os.Getenv("WINEDEBUG")
	if debug == "" {
		debug = o.WineDebug
	}
	env = append(env, "WINEDEBUG="+debug)

	if o.Arch == ArchWin32 {
		arch := os.Getenv("WINEARCH")
		if arch == "" {
			arch = string(ArchWin32)
		}
		env = append(env, "WINEARCH="+arch)
	}
	if esync := os.Getenv("WINEESYNC"); esync != "" {
		env = append(env, "WINEESYNC="+esync)
	}
	if overrides := dllOverridesEnv(o); overrides != "" {
		env = append(env, "WINEDLLOVERRIDES="+overrides)
	}
	return env
}

// dllOverridesEnv renders the boot-time WINEDLLOVERRIDES value disabling
// the modules selected by the options, merged after any host-provided
// overrides so explicit caller settings still apply.
func dllOverridesEnv(o *Options) string {
	var parts []string
	if host := os.Getenv("WINEDLLOVERRIDES"); host != "" {
		parts = append(parts, host)
	}
	for _, dll := range disabledModules(o) {
		parts = append(parts, dll+"=")
	}
	return strings.Join(parts, ";")
}

// ShellQuote quotes s for safe interpolation into a POSIX shell command line.
func ShellQuote(s string) string {
	quoted, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Only non-printable input fails; fall back to Go quoting.
		return strconv.Quote(s)
	}
	return quoted
}

// QuoteCommand renders an argv for log output, each word shell-quoted.
func QuoteCommand(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = ShellQuote(a)
	}
	return strings.Join(quoted, " ")
}
