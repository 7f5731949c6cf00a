package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "v0.1"

var rootCmd = &cobra.Command{
	Use:   "autoladder",
	Short: "AutoLadder: symmetric limit-order ladder for Binance Spot",
	Long:  "AutoLadder places a ladder of limit buy/sell orders around the current price on a fixed cadence",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of AutoLadder",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "AutoLadder", version)
	},
}

var (
	configFile string
	envFile    string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "configFile", "c", "", "Configuration file, YAML or JSON")
	rootCmd.PersistentFlags().StringVarP(&envFile, "envFile", "e", "", "Dotenv file loaded before reading LADDER_* variables")

	rootCmd.AddCommand(versionCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
