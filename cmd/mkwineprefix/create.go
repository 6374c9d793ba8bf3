// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mkwineprefix/internal/config"
	"mkwineprefix/internal/issue"
	"mkwineprefix/internal/prefix"
	"mkwineprefix/internal/q4wine"
)

type (
	// flagValues holds the raw values of the root command's flags.
	flagValues struct {
		dpi            int
		prefixRoot     string
		windowsVersion string
		vd             string
		tricks         []string

		asio            bool
		debug           bool
		disableExplorer bool
		disableServices bool
		dxvaVaapi       bool
		eax             bool
		gtk             bool
		noAssocs        bool
		noGecko         bool
		noMono          bool
		noXDG           bool
		noto            bool
		nvapi           bool
		sandbox         bool
		thirtyTwoBit    bool
		tmpfs           bool
		winrtDark       bool
	}

	// flagsChanged records which value flags the user set explicitly, so
	// config-file defaults only apply to the untouched ones.
	flagsChanged struct {
		dpi            bool
		prefixRoot     bool
		windowsVersion bool
	}
)

// runCreate is the RunE handler of the root command.
func runCreate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		// Usage goes to stderr; stdout stays reserved for export lines.
		fmt.Fprintln(os.Stderr, cmd.UsageString())
		return errors.New("missing PREFIX_NAME argument")
	}

	log.SetOutput(os.Stderr)
	if createFlags.debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		showSuggestions(err)
		return err
	}

	changed := flagsChanged{
		dpi:            cmd.Flags().Changed("dpi"),
		prefixRoot:     cmd.Flags().Changed("prefix-root"),
		windowsVersion: cmd.Flags().Changed("windows-version"),
	}
	opts, err := buildOptions(args[0], &createFlags, changed, cfg)
	if err != nil {
		return err
	}

	creator := &prefix.Creator{Runner: prefix.NewExecRunner(os.Stderr)}
	if cfg.Q4Wine.Register {
		if dbPath, ok := q4wine.DatabasePath(); ok {
			creator.Registrar = q4wine.NewRegistrar(dbPath)
		}
	}

	result, err := creator.Create(cmd.Context(), opts)
	if err != nil {
		showSuggestions(err)
		var cmdErr *prefix.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code != 0 {
			return &ExitError{Code: cmdErr.Code, Err: err}
		}
		return err
	}

	printResult(opts.Name, result)
	return nil
}

// buildOptions merges the CLI flags with the configuration file. Flags win
// for anything the user set explicitly; otherwise config values apply.
func buildOptions(name string, f *flagValues, changed flagsChanged, cfg *config.Config) (*prefix.Options, error) {
	opts := &prefix.Options{
		Name:           name,
		Root:           cfg.PrefixRoot,
		DPI:            cfg.DPI,
		WindowsVersion: prefix.WindowsVersion(cfg.WindowsVersion),
		VirtualDesktop: prefix.VirtualDesktop(f.vd),
		Tricks:         f.tricks,

		ASIO:            f.asio,
		DisableExplorer: f.disableExplorer,
		DisableServices: f.disableServices,
		DXVAVAAPI:       f.dxvaVaapi,
		EAX:             f.eax,
		GTKTheme:        f.gtk,
		NoAssociations:  f.noAssocs,
		NoGecko:         f.noGecko,
		NoMono:          f.noMono,
		NoXDG:           f.noXDG,
		NotoSans:        f.noto,
		NVAPI:           f.nvapi,
		Sandbox:         f.sandbox,
		Tmpfs:           f.tmpfs,
		WinRTDark:       f.winrtDark,

		WineDebug:         cfg.WineDebug,
		WinetricksCountry: cfg.Winetricks.Country,
	}
	if changed.dpi {
		// An explicit --dpi 0 would otherwise alias the unset value and
		// be coerced to the default instead of rejected.
		if f.dpi == 0 {
			return nil, &prefix.InvalidDPIError{Value: f.dpi}
		}
		opts.DPI = f.dpi
	}
	if changed.prefixRoot {
		opts.Root = f.prefixRoot
	}
	if changed.windowsVersion {
		opts.WindowsVersion = prefix.WindowsVersion(f.windowsVersion)
	}
	if f.thirtyTwoBit {
		opts.Arch = prefix.ArchWin32
	}
	return opts, nil
}

// showSuggestions prints the fix hints of an actionable error to stderr.
// The error message itself is rendered by fang after RunE returns.
func showSuggestions(err error) {
	var aerr *issue.ActionableError
	if !errors.As(err, &aerr) || !aerr.HasSuggestions() {
		return
	}
	for _, suggestion := range aerr.Suggestions {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("  • ")+suggestion)
	}
}

// printResult writes the usage hints to stderr and the export statements to
// stdout, so `eval $(mkwineprefix ...)` only sees the exports. The PS1 line
// deliberately leaves $PS1 unquoted so the user's shell expands it.
func printResult(name string, result *prefix.CreateResult) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, SuccessStyle.Render("Prefix created:")+" "+result.Target)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Run the following to set up the environment, or re-run with eval:")
	fmt.Fprintln(os.Stderr)

	for _, export := range result.Exports {
		fmt.Println(export.ExportLine())
	}
	fmt.Printf("export PS1=\"%s🍷$PS1\"\n", name)
}
