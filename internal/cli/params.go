package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stabilizer/pkg/config"
)

// paramsCommand creates the params command.
func (c *CLI) paramsCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the effective parameters as TOML",
		Long: `Params prints the parameter set analyze would use. Start a config file
from its output: stabilizer params > pla.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadParams(path)
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVar(&path, "config", "", "parameter file (TOML)")
	return cmd
}
