// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as
// the file format.
//
// Configuration is loaded from ~/.config/mkwineprefix/config.cue (or the
// XDG equivalent on Linux, ~/Library/Application Support/mkwineprefix on
// macOS, %APPDATA%\mkwineprefix on Windows) and validated against a CUE
// schema (config_schema.cue). A missing file yields built-in defaults.
package config
