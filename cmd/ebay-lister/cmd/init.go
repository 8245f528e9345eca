package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/ebay-lister/internal/config"
)

func initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Writes a config file with placeholder credentials and sandbox
endpoints to the path given by --config. Refuses to overwrite an
existing file. Edit the YOUR_* values before running other commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteDefault(cfgFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfgFile)
			fmt.Fprintln(cmd.OutOrStdout(), "fill in credentials, then run 'ebay-lister auth login'")
			return nil
		},
	}
}
