package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/msalah0e/cardstudio/internal/config"
	"github.com/msalah0e/cardstudio/internal/ui"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return toml.NewEncoder(os.Stdout).Encode(cfg)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(configTarget())
			},
		},
		configInitCmd(),
	)
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configTarget()
			if _, err := os.Stat(path); err == nil && !force {
				ui.Warn.Printf("  %s already exists (use --force to overwrite)\n", path)
				return nil
			}
			if err := config.SaveFile(path, config.Default()); err != nil {
				return err
			}
			ui.Good.Printf("  %s Wrote %s\n", ui.StatusIcon(true), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func configTarget() string {
	if configFile != "" {
		return configFile
	}
	return config.Path()
}
