// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mkwineprefix/internal/testutil"
)

// useConfigDir points the package at a temp config directory for the test.
func useConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)
	return dir
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	testutil.MustWriteFile(t, path, []byte(content), 0o644)
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	useConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DPI != 96 {
		t.Errorf("DPI = %d, want 96", cfg.DPI)
	}
	if cfg.WindowsVersion != "10" {
		t.Errorf("WindowsVersion = %q, want 10", cfg.WindowsVersion)
	}
	if cfg.WineDebug != "fixme-all" {
		t.Errorf("WineDebug = %q, want fixme-all", cfg.WineDebug)
	}
	if cfg.Winetricks.Country != "US" {
		t.Errorf("Winetricks.Country = %q, want US", cfg.Winetricks.Country)
	}
	if !cfg.Q4Wine.Register {
		t.Error("Q4Wine.Register = false, want true")
	}
}

func TestLoadReadsCUEFile(t *testing.T) {
	dir := useConfigDir(t)
	writeConfig(t, dir, `
dpi:             144
windows_version: "7"
winetricks: country: "DE"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DPI != 144 {
		t.Errorf("DPI = %d, want 144", cfg.DPI)
	}
	if cfg.WindowsVersion != "7" {
		t.Errorf("WindowsVersion = %q, want 7", cfg.WindowsVersion)
	}
	if cfg.Winetricks.Country != "DE" {
		t.Errorf("Winetricks.Country = %q, want DE", cfg.Winetricks.Country)
	}
	// Untouched settings keep their defaults.
	if cfg.WineDebug != "fixme-all" {
		t.Errorf("WineDebug = %q, want default fixme-all", cfg.WineDebug)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"dpi out of range", "dpi: 9000\n"},
		{"unknown windows version", `windows_version: "vista64"` + "\n"},
		{"wrong type", "dpi: \"high\"\n"},
		{"syntax error", "dpi: : 96\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := useConfigDir(t)
			writeConfig(t, dir, tt.content)

			if _, err := Load(); err == nil {
				t.Error("Load() = nil error, want validation failure")
			}
		})
	}
}

func TestLoadErrorNamesTheFile(t *testing.T) {
	dir := useConfigDir(t)
	writeConfig(t, dir, "dpi: 9000\n")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() = nil error")
	}
	if !strings.Contains(err.Error(), ConfigFileName+"."+ConfigFileExt) {
		t.Errorf("error does not name the config file: %v", err)
	}
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	dir := useConfigDir(t)
	writeConfig(t, dir, "// "+strings.Repeat("x", maxConfigFileSize)+"\n")

	if _, err := Load(); err == nil {
		t.Error("Load() = nil error for oversized file")
	}
}

func TestFilePath(t *testing.T) {
	dir := useConfigDir(t)

	path, err := FilePath()
	if err != nil {
		t.Fatalf("FilePath() error = %v", err)
	}
	want := filepath.Join(dir, "config.cue")
	if path != want {
		t.Errorf("FilePath() = %q, want %q", path, want)
	}
}

func TestGenerateCUERoundTrips(t *testing.T) {
	dir := useConfigDir(t)
	defaults := DefaultConfig()
	defaults.PrefixRoot = "/srv/prefixes"
	writeConfig(t, dir, GenerateCUE(defaults))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PrefixRoot != "/srv/prefixes" {
		t.Errorf("PrefixRoot = %q, want /srv/prefixes", cfg.PrefixRoot)
	}
	if cfg.DPI != defaults.DPI {
		t.Errorf("DPI = %d, want %d", cfg.DPI, defaults.DPI)
	}
}

func TestConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want override %q", got, dir)
	}
}

func TestConfigDirDefaultLinux(t *testing.T) {
	if os.Getenv("XDG_CONFIG_HOME") == "" {
		t.Cleanup(testutil.MustSetenv(t, "XDG_CONFIG_HOME", t.TempDir()))
	}
	Reset()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if filepath.Base(dir) != AppName {
		t.Errorf("ConfigDir() = %q, want a %q directory", dir, AppName)
	}
}
