// SPDX-License-Identifier: MPL-2.0

package config

import "fmt"

type (
	// Config is the resolved application configuration. Every field has a
	// working default so a missing config file is not an error.
	Config struct {
		// PrefixRoot is the root directory for created prefixes.
		// Empty means ~/.local/share/wineprefixes.
		PrefixRoot string `mapstructure:"prefix_root"`

		// DPI is the default screen DPI for new prefixes.
		DPI int `mapstructure:"dpi"`

		// WindowsVersion is the default Windows version token.
		WindowsVersion string `mapstructure:"windows_version"`

		// WineDebug is the WINEDEBUG value used during prefix creation.
		WineDebug string `mapstructure:"wine_debug"`

		Winetricks WinetricksConfig `mapstructure:"winetricks"`
		Q4Wine     Q4WineConfig     `mapstructure:"q4wine"`
	}

	// WinetricksConfig holds winetricks invocation settings.
	WinetricksConfig struct {
		// Country is passed to winetricks as --country=.
		Country string `mapstructure:"country"`
	}

	// Q4WineConfig holds Q4Wine integration settings.
	Q4WineConfig struct {
		// Register enables adding new prefixes to an existing Q4Wine
		// database.
		Register bool `mapstructure:"register"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DPI:            96,
		WindowsVersion: "10",
		WineDebug:      "fixme-all",
		Winetricks:     WinetricksConfig{Country: "US"},
		Q4Wine:         Q4WineConfig{Register: true},
	}
}

// GenerateCUE renders the configuration as a CUE document, used by
// `config show` and as the `config init` template.
func GenerateCUE(cfg *Config) string {
	return fmt.Sprintf(`prefix_root:     %q
dpi:             %d
windows_version: %q
wine_debug:      %q
winetricks: country: %q
q4wine: register: %v
`,
		cfg.PrefixRoot, cfg.DPI, cfg.WindowsVersion, cfg.WineDebug,
		cfg.Winetricks.Country, cfg.Q4Wine.Register)
}
