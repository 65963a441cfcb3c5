package commands

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var keyPath string

// minerKeyCmd groups the commands for the key a node uses as its identity.
var minerKeyCmd = &cobra.Command{
	Use:   "minerkey",
	Short: "Manage the key that gives a node its identity",
}

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new miner key file",
	RunE: func(cmd *cobra.Command, args []string) error {
		privateKey, err := crypto.GenerateKey()
		if err != nil {
			return fmt.Errorf("generate key: %w", err)
		}

		if err := crypto.SaveECDSA(keyPath, privateKey); err != nil {
			return fmt.Errorf("save key: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", keyPath, crypto.PubkeyToAddress(privateKey.PublicKey))

		return nil
	},
}

// addressCmd represents the address command
var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the identity a node started with the miner key will use",
	RunE: func(cmd *cobra.Command, args []string) error {
		privateKey, err := crypto.LoadECDSA(keyPath)
		if err != nil {
			return fmt.Errorf("load key: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), crypto.PubkeyToAddress(privateKey.PublicKey))

		return nil
	},
}

func init() {
	minerKeyCmd.PersistentFlags().StringVarP(&keyPath, "key", "k", "zblock/miner.ecdsa", "Path to the miner key file.")
	minerKeyCmd.AddCommand(generateCmd, addressCmd)
	rootCmd.AddCommand(minerKeyCmd)
}
