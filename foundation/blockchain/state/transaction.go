package state

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

// SubmitTransaction adds a new transaction to the mempool and returns the
// index of the block that is expected to hold it. The caller is responsible
// for checking the transaction is well formed.
func (s *State) SubmitTransaction(tx database.Tx) int {
	s.evHandler("state: SubmitTransaction: tx[%s]", tx)

	return s.ledger.NewTransaction(tx)
}
