package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/alanyoungcy/marketdash/internal/config"
)

func configCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the active configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration with secrets redacted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			redacted := config.RedactedConfig(c.cfg)
			if err := toml.NewEncoder(cmd.OutOrStdout()).Encode(redacted); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return nil
		},
	})
	return cmd
}
