// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for mkwineprefix.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// createFlags holds the raw flag values for the root command.
	createFlags flagValues

	// rootCmd creates a prefix when called with a name argument.
	rootCmd = &cobra.Command{
		Use:   "mkwineprefix [flags] PREFIX_NAME",
		Short: "Create a Wine prefix with custom settings",
		Long: TitleStyle.Render("mkwineprefix") + SubtitleStyle.Render(" - Create a Wine prefix with custom settings") + `

mkwineprefix creates an isolated Wine environment directory with the
requested DPI, fonts, Windows version emulation, sandboxing and other
tweaks, then prints shell export statements for the new prefix.

This should be used with eval so your shell picks up the environment:

` + CmdStyle.Render("  eval $(mkwineprefix my-prefix --dpi 120 --windows-version 7)"),
		Args: cobra.MaximumNArgs(1),
		RunE: runCreate,
	}
)

func init() {
	f := rootCmd.Flags()
	f.IntVarP(&createFlags.dpi, "dpi", "D", 0, "screen DPI")
	f.BoolVarP(&createFlags.debug, "debug", "d", false, "enable debug output")
	f.BoolVar(&createFlags.disableExplorer, "disable-explorer", false,
		"disable starting explorer.exe automatically")
	f.BoolVar(&createFlags.disableServices, "disable-services", false,
		"disable starting services.exe automatically (only useful for simple CLI programs with --disable-explorer)")
	f.BoolVarP(&createFlags.eax, "eax", "E", false, "enable EAX")
	f.BoolVarP(&createFlags.gtk, "gtk", "g", false, "enable Gtk+ theming")
	f.StringVarP(&createFlags.prefixRoot, "prefix-root", "r", "", "prefix root directory")
	f.BoolVarP(&createFlags.sandbox, "sandbox", "S", false, "sandbox the prefix")
	f.BoolVar(&createFlags.noGecko, "no-gecko", false, "disable downloading Gecko automatically")
	f.BoolVar(&createFlags.noMono, "no-mono", false, "disable downloading Mono automatically")
	f.BoolVar(&createFlags.noXDG, "no-xdg", false, "disable winemenubuilder.exe")
	f.BoolVar(&createFlags.noAssocs, "no-assocs", false,
		"disable creating file associations, but still allow menu entries to be made (unless --no-xdg is also passed)")
	f.BoolVarP(&createFlags.nvapi, "nvapi", "N", false, "add dxvk-nvapi")
	f.BoolVarP(&createFlags.noto, "noto", "o", false, "use Noto Sans in place of most fonts")
	f.StringArrayVarP(&createFlags.tricks, "trick", "T", nil, "add an argument for winetricks")
	f.BoolVarP(&createFlags.tmpfs, "tmpfs", "t", false, "make Wine use tmpfs")
	f.StringVarP(&createFlags.windowsVersion, "windows-version", "V", "",
		"Windows version (11, 10, vista, 2k3, 7, 8, xp, 81, 2k, 98, 95)")
	f.StringVar(&createFlags.vd, "vd", "off", "virtual desktop size, e.g. 1024x768")
	f.BoolVarP(&createFlags.winrtDark, "winrt-dark", "W", false, "enable dark mode for WinRT apps")
	f.BoolVarP(&createFlags.dxvaVaapi, "dxva-vaapi", "x", false, "enable DXVA2 support with VA-API")
	f.BoolVar(&createFlags.thirtyTwoBit, "32", false, "use 32-bit prefix")
	f.BoolVarP(&createFlags.asio, "asio", "A", false, "register wineasio")

	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. This is called by main.main(). The process
// exit code mirrors the first failing external command.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
