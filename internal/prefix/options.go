// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// DefaultDPI is the DPI Wine assumes when nothing is configured.
	// Prefixes created with this value get no LogPixels registry entry.
	DefaultDPI = 96
	// MinDPI is the lowest accepted --dpi value.
	MinDPI = 72
	// MaxDPI is the highest accepted --dpi value.
	MaxDPI = 480

	// VirtualDesktopOff disables the virtual desktop.
	VirtualDesktopOff VirtualDesktop = "off"

	// ArchWin64 creates a 64-bit prefix (Wine's default).
	ArchWin64 Arch = "win64"
	// ArchWin32 creates a 32-bit prefix.
	ArchWin32 Arch = "win32"
)

// Windows versions supported by Wine, using the short tokens the CLI accepts.
const (
	Win11    WindowsVersion = "11"
	Win10    WindowsVersion = "10"
	WinVista WindowsVersion = "vista"
	Win2k3   WindowsVersion = "2k3"
	Win7     WindowsVersion = "7"
	Win8     WindowsVersion = "8"
	WinXP    WindowsVersion = "xp"
	Win81    WindowsVersion = "81"
	Win2k    WindowsVersion = "2k"
	Win98    WindowsVersion = "98"
	Win95    WindowsVersion = "95"
)

var (
	// ErrInvalidWindowsVersion is the sentinel error wrapped by InvalidWindowsVersionError.
	ErrInvalidWindowsVersion = errors.New("invalid windows version")
	// ErrInvalidDPI is the sentinel error wrapped by InvalidDPIError.
	ErrInvalidDPI = errors.New("invalid dpi")
	// ErrInvalidVirtualDesktop is the sentinel error wrapped by InvalidVirtualDesktopError.
	ErrInvalidVirtualDesktop = errors.New("invalid virtual desktop size")
	// ErrInvalidPrefixName is the sentinel error wrapped by InvalidPrefixNameError.
	ErrInvalidPrefixName = errors.New("invalid prefix name")

	// vdPattern matches virtual desktop sizes such as "1024x768".
	vdPattern = regexp.MustCompile(`^[1-9][0-9]*x[1-9][0-9]*$`)
)

type (
	// WindowsVersion is the Windows version token Wine should emulate.
	WindowsVersion string

	// InvalidWindowsVersionError is returned when a WindowsVersion token is
	// not recognized. It wraps ErrInvalidWindowsVersion for errors.Is().
	InvalidWindowsVersionError struct {
		Value WindowsVersion
	}

	// Arch selects the prefix architecture via WINEARCH.
	Arch string

	// VirtualDesktop is either VirtualDesktopOff or a "WxH" size string.
	VirtualDesktop string

	// InvalidVirtualDesktopError is returned when a VirtualDesktop value is
	// neither "off" nor a WxH size. It wraps ErrInvalidVirtualDesktop.
	InvalidVirtualDesktopError struct {
		Value VirtualDesktop
	}

	// InvalidDPIError is returned when a DPI value is outside [MinDPI, MaxDPI].
	// It wraps ErrInvalidDPI for errors.Is().
	InvalidDPIError struct {
		Value int
	}

	// InvalidPrefixNameError is returned when a prefix name is empty or would
	// escape the prefix root. It wraps ErrInvalidPrefixName for errors.Is().
	InvalidPrefixNameError struct {
		Value string
	}

	// Options is the full prefix configuration, one field per CLI flag.
	// It is built once from flags and config, validated, and then consumed
	// by BuildPlan. Nothing mutates it afterwards.
	Options struct {
		// Name is the prefix directory name under Root.
		Name string
		// Root is the prefix root directory. Empty means DefaultRoot().
		Root string

		Arch           Arch
		DPI            int
		WindowsVersion WindowsVersion
		VirtualDesktop VirtualDesktop

		// Tricks are user-supplied winetricks verbs (--trick, repeatable).
		Tricks []string

		ASIO            bool
		DisableExplorer bool
		DisableServices bool
		DXVAVAAPI       bool
		EAX             bool
		GTKTheme        bool
		NoAssociations  bool
		NoGecko         bool
		NoMono          bool
		NoXDG           bool
		NotoSans        bool
		NVAPI           bool
		Sandbox         bool
		Tmpfs           bool
		WinRTDark       bool

		// WineDebug is the WINEDEBUG value used for all wine invocations.
		WineDebug string
		// WinetricksCountry is passed as --country= to winetricks.
		WinetricksCountry string
	}
)

// supportedWindowsVersions lists the valid tokens in CLI help order.
var supportedWindowsVersions = []WindowsVersion{
	Win11, Win10, WinVista, Win2k3, Win7, Win8, WinXP, Win81, Win2k, Win98, Win95,
}

// SupportedWindowsVersions returns the valid --windows-version tokens.
func SupportedWindowsVersions() []WindowsVersion {
	out := make([]WindowsVersion, len(supportedWindowsVersions))
	copy(out, supportedWindowsVersions)
	return out
}

// Error implements the error interface.
func (e *InvalidWindowsVersionError) Error() string {
	return fmt.Sprintf("invalid windows version %q (supported: %s)",
		e.Value, joinVersions(supportedWindowsVersions))
}

// Unwrap returns ErrInvalidWindowsVersion so callers can use errors.Is.
func (e *InvalidWindowsVersionError) Unwrap() error { return ErrInvalidWindowsVersion }

// Error implements the error interface.
func (e *InvalidDPIError) Error() string {
	return fmt.Sprintf("invalid dpi %d (must be in range %d-%d)", e.Value, MinDPI, MaxDPI)
}

// Unwrap returns ErrInvalidDPI so callers can use errors.Is.
func (e *InvalidDPIError) Unwrap() error { return ErrInvalidDPI }

// Error implements the error interface.
func (e *InvalidVirtualDesktopError) Error() string {
	return fmt.Sprintf("invalid virtual desktop size %q (expected WxH, e.g. 1024x768, or %q)",
		e.Value, VirtualDesktopOff)
}

// Unwrap returns ErrInvalidVirtualDesktop so callers can use errors.Is.
func (e *InvalidVirtualDesktopError) Unwrap() error { return ErrInvalidVirtualDesktop }

// Error implements the error interface.
func (e *InvalidPrefixNameError) Error() string {
	return fmt.Sprintf("invalid prefix name %q (must be a plain directory name)", e.Value)
}

// Unwrap returns ErrInvalidPrefixName so callers can use errors.Is.
func (e *InvalidPrefixNameError) Unwrap() error { return ErrInvalidPrefixName }

// IsValid returns whether the version token is supported.
func (v WindowsVersion) IsValid() bool {
	for _, s := range supportedWindowsVersions {
		if v == s {
			return true
		}
	}
	return false
}

// String returns the version token.
func (v WindowsVersion) String() string { return string(v) }

// Enabled returns whether a virtual desktop is requested.
func (d VirtualDesktop) Enabled() bool { return d != "" && d != VirtualDesktopOff }

// IsValid returns whether the value is "off" or a WxH size.
func (d VirtualDesktop) IsValid() bool {
	if d == "" || d == VirtualDesktopOff {
		return true
	}
	return vdPattern.MatchString(string(d))
}

// String returns the size token.
func (d VirtualDesktop) String() string { return string(d) }

// DefaultRoot returns the prefix root used when none is configured:
// ~/.local/share/wineprefixes.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "wineprefixes"), nil
}

// Target returns the prefix directory path, Root/Name.
// Root must already be resolved (non-empty).
func (o *Options) Target() string {
	return filepath.Join(o.Root, o.Name)
}

// Validate checks every option and reports the first problem found.
// It must be called before BuildPlan; no side effect happens for
// invalid options.
func (o *Options) Validate() error {
	if o.Name == "" || o.Name == "." || o.Name == ".." ||
		strings.ContainsAny(o.Name, `/\`) {
		return &InvalidPrefixNameError{Value: o.Name}
	}
	if o.WindowsVersion != "" && !o.WindowsVersion.IsValid() {
		return &InvalidWindowsVersionError{Value: o.WindowsVersion}
	}
	if o.DPI != 0 && (o.DPI < MinDPI || o.DPI > MaxDPI) {
		return &InvalidDPIError{Value: o.DPI}
	}
	if !o.VirtualDesktop.IsValid() {
		return &InvalidVirtualDesktopError{Value: o.VirtualDesktop}
	}
	return nil
}

// withDefaults returns a copy of the options with zero values filled in.
func (o *Options) withDefaults() *Options {
	out := *o
	if out.Arch == "" {
		out.Arch = ArchWin64
	}
	if out.DPI == 0 {
		out.DPI = DefaultDPI
	}
	if out.WindowsVersion == "" {
		out.WindowsVersion = Win10
	}
	if out.VirtualDesktop == "" {
		out.VirtualDesktop = VirtualDesktopOff
	}
	if out.WineDebug == "" {
		out.WineDebug = "fixme-all"
	}
	if out.WinetricksCountry == "" {
		out.WinetricksCountry = "US"
	}
	return &out
}

func joinVersions(versions []WindowsVersion) string {
	parts := make([]string, len(versions))
	for i, v := range versions {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
