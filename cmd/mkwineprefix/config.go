// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mkwineprefix/internal/config"
)

var (
	// configCmd is the parent for configuration subcommands.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage mkwineprefix configuration",
		Long: TitleStyle.Render("mkwineprefix config") + SubtitleStyle.Render(" - Manage configuration") + `

The configuration file is written in CUE and validated against a schema.
Every setting is optional; missing settings fall back to built-in defaults.`,
	}

	// configShowCmd prints the resolved configuration.
	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	}

	// configPathCmd prints the config file location.
	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.FilePath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	// configInitForce overwrites an existing config file.
	configInitForce bool

	// configInitCmd writes a config file populated with the defaults.
	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with the default settings",
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.FilePath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !configInitForce {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			content := config.GenerateCUE(config.DefaultConfig())
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}
			fmt.Println(SuccessStyle.Render("Created config file:") + " " + path)
			return nil
		},
	}
)

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}
