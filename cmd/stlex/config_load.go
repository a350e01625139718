package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"stlex/internal/config"
)

var (
	cliConfig     = config.Default()
	cliConfigPath string
)

// loadCLIConfig reads --config, or the nearest stlex.toml, into cliConfig.
func loadCLIConfig(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	fsys := osFS()
	if path != "" {
		cfg, err := config.Load(fsys, path)
		if err != nil {
			return err
		}
		cliConfig, cliConfigPath = cfg, path
		return nil
	}
	cfg, found, err := config.Discover(fsys, ".")
	if err != nil {
		return err
	}
	cliConfig, cliConfigPath = cfg, found
	return nil
}

func osFS() afero.Fs { return afero.NewOsFs() }
