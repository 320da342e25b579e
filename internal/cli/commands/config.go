package commands

import (
	"fmt"

	"github.com/briefhub-dev/briefhub/internal/cli/userconfig"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command group
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and change local CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-url <base-url>",
		Short: "Point the CLI at a different API server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSetURL(args[0])
		},
	})

	return cmd
}

func runConfigShow() error {
	cfg, err := userconfig.Load()
	if err != nil {
		return err
	}

	path, _ := userconfig.GetConfigPath()
	fmt.Printf("Config file:  %s\n", path)
	fmt.Printf("API base URL: %s\n", cfg.APIBaseURL)
	if cfg.Identity != nil {
		fmt.Printf("Cached user:  %s (%s)\n", cfg.Identity.DisplayName, cfg.Identity.Email)
	}
	return nil
}

func runConfigSetURL(baseURL string) error {
	if err := userconfig.SetAPIBaseURL(baseURL); err != nil {
		return err
	}
	fmt.Printf("✓ API base URL set to %s\n", baseURL)
	return nil
}
