package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var blockFile string

// hashCmd represents the hash command
var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Print the hash of a block read as JSON from a file or stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if blockFile != "" {
			f, err := os.Open(blockFile)
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		var block database.Block
		if err := json.NewDecoder(r).Decode(&block); err != nil {
			return fmt.Errorf("decoding block: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), block.Hash())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
	hashCmd.Flags().StringVarP(&blockFile, "file", "f", "", "File holding the block, stdin when empty.")
}
