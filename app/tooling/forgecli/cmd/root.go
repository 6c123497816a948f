// Package cmd contains the commands for the forgecli app.
package cmd

import (
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "forgecli",
	Short: "Talk to a forgechain node",
	Long:  `forgecli submits transactions to a forgechain node, asks it to mine, and inspects its chain.`,
}

func init() {
	rootCmd.PersistentFlags().StringP("url", "u", "http://localhost:8080", "Url of the node.")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		pterm.Error.Printfln("Failed to bind flags: %v", err)
	}

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	viper.SetEnvPrefix("forgecli")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
