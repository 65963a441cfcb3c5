// Package commands contains the admin commands for working with nodes.
package commands

import (
	"os"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	host       string
	timeout    time.Duration
	difficulty int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative tasks against ledger nodes",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&host, "host", "n", "localhost:5000", "Host of the node.")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "Timeout for calls to the node.")
	rootCmd.PersistentFlags().IntVarP(&difficulty, "difficulty", "d", database.DefaultDifficulty, "Proof of work difficulty the chain was mined with.")
}
