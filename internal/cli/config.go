package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipeflow/pkg/config"
)

// configCommand creates the config command, which prints the effective
// configuration after defaults are applied.
func (c *CLI) configCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration pipeflow would run with: the loaded file (if any)
with every unset field filled from the defaults. The output is a valid
config file and can be saved as a starting point.`,
		Example: `  pipeflow config > pipeflow.toml
  pipeflow config --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := c.loadConfig(logger)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal(config.Format(format))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(config.FormatTOML), "output format: toml, yaml or json")
	return cmd
}
