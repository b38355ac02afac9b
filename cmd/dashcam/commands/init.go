package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roadeye/dashcam/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a configuration file populated with the built-in defaults.

By default the file is created at $XDG_CONFIG_HOME/dashcam/config.yaml.
Use --config to choose another path.

Examples:
  # Initialize at the default location
  dashcam init

  # Initialize at a custom path
  dashcam init --config /etc/dashcam/config.yaml

  # Overwrite an existing file
  dashcam init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := GetConfigFile()
	if path == "" {
		path = config.DefaultPath()
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := config.Save(config.Default(), path); err != nil {
		return err
	}

	fmt.Printf("Configuration file created at: %s\n", path)
	fmt.Println("Edit it to taste, then run: dashcam start")
	return nil
}
