package commands

import (
	"context"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/spf13/cobra"
)

var verbose bool

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Download the chain of a node and audit every block",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		pr, err := peer.Parse("http://" + host)
		if err != nil {
			return err
		}

		length, chain, err := peer.NewClient(timeout).QueryChain(ctx, pr.Host)
		if err != nil {
			return fmt.Errorf("query chain: %w", err)
		}

		out := cmd.OutOrStdout()

		if verbose {
			for _, block := range chain {
				fmt.Fprintf(out, "blk[%d] txs[%d] proof[%d] hash[%s]\n", block.Index, len(block.Transactions), block.Proof, block.Hash())
			}
		}

		if length != len(chain) {
			return fmt.Errorf("node reported length %d but sent %d blocks", length, len(chain))
		}

		if err := database.CheckChain(chain, difficulty); err != nil {
			return fmt.Errorf("chain invalid: %w", err)
		}

		if len(chain) > 0 && !chain[0].IsGenesis() {
			fmt.Fprintf(out, "%s: first block is not a genesis block\n", pr.Host)
		}

		fmt.Fprintf(out, "%s: chain of %d blocks is valid\n", pr.Host, len(chain))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every block.")
}
