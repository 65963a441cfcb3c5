package commands

import (
	"context"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/spf13/cobra"
)

// idCmd represents the id command
var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Show the identity of a node",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		pr, err := peer.Parse("http://" + host)
		if err != nil {
			return err
		}

		id, err := peer.NewClient(timeout).QueryIdentity(ctx, pr.Host)
		if err != nil {
			return fmt.Errorf("query identity: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", pr.Host, id)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(idCmd)
}
