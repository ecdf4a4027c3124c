// Package cmd contains the miner cli app.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var genesisFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&genesisFile, "genesis", "g", "zmine/genesis.json", "Path to the genesis file.")
}

var rootCmd = &cobra.Command{
	Use:   "miner",
	Short: "Proof of work mining from the command line",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
