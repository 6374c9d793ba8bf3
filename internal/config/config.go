// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/viper"

	"mkwineprefix/internal/issue"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "mkwineprefix"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	// maxConfigFileSize bounds config reads to keep a corrupt or
	// hostile file from exhausting memory.
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the mkwineprefix configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FilePath returns the location of the config file, whether or not it exists.
func FilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// Load reads the configuration file if present, validates it against the
// embedded CUE schema, and returns the merged configuration. A missing
// file yields the defaults without error.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("prefix_root", defaults.PrefixRoot)
	v.SetDefault("dpi", defaults.DPI)
	v.SetDefault("windows_version", defaults.WindowsVersion)
	v.SetDefault("wine_debug", defaults.WineDebug)
	v.SetDefault("winetricks.country", defaults.Winetricks.Country)
	v.SetDefault("q4wine.register", defaults.Q4Wine.Register)

	cuePath, err := FilePath()
	if err != nil {
		return nil, err
	}
	if fileExists(cuePath) {
		if err := loadCUEIntoViper(v, cuePath); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(cuePath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'mkwineprefix config show' to see the resolved configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into Viper. Manual parsing (rather than
// decoding straight to the struct) keeps Viper in charge of defaults for
// fields the file omits.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if int64(len(data)) > maxConfigFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			path, len(data), maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	// Unify with the schema to validate against the #Config definition.
	// Concrete(false) because every field is optional.
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	for key, value := range configMap {
		v.Set(key, value)
	}
	return nil
}

// formatCUEError flattens a CUE error list into one message prefixed with
// the file path, keeping the per-field paths CUE reports.
func formatCUEError(err error, path string) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", path, err)
	}
	var lines []string
	for _, e := range errs {
		if p := strings.Join(cueerrors.Path(e), "."); p != "" {
			lines = append(lines, p+": "+e.Error())
			continue
		}
		lines = append(lines, e.Error())
	}
	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", path, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", path, strings.Join(lines, "\n  "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
