// Package cmd implements the ebay-lister CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "ebay-lister",
	Short: "Create scheduled eBay listings from the terminal",
	Long: "ebay-lister publishes product listings on eBay with a deferred go-live\n" +
		"time. It handles the OAuth2 user consent flow, keeps the token fresh,\n" +
		"and drives the Sell Inventory API: inventory item, offer, publish.",
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initEnv)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "config.json", "config file path (.json or .yaml)")
	rootCmd.PersistentFlags().
		StringVar(&metricsAddr, "metrics-addr", "", "optional address to expose Prometheus metrics on")

	cobra.CheckErr(viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")))
	cobra.CheckErr(viper.BindPFlag("metrics-addr", rootCmd.PersistentFlags().Lookup("metrics-addr")))

	rootCmd.AddCommand(initCommand())
	rootCmd.AddCommand(authCommand())
	rootCmd.AddCommand(publishCommand())
	rootCmd.AddCommand(locationCommand())
	rootCmd.AddCommand(policiesCommand())
	rootCmd.AddCommand(versionCommand())
}

func initEnv() {
	viper.SetEnvPrefix("LISTER")
	viper.AutomaticEnv()

	if v := viper.GetString("config"); v != "" {
		cfgFile = v
	}
	if v := viper.GetString("metrics-addr"); v != "" {
		metricsAddr = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
