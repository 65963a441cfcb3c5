package database

import (
	"encoding/json"
	"fmt"
)

// RewardSender is the sender used for the transaction that pays a miner for
// solving a block.
const RewardSender = "0"

// =============================================================================

// Tx is the transactional information between two parties. The values are
// opaque to the ledger and are carried exactly as they were submitted.
type Tx struct {
	Sender    string      `json:"sender"`
	Recipient string      `json:"recipient"`
	Amount    json.Number `json:"amount"`
}

// NewTx constructs a new transaction.
func NewTx(sender string, recipient string, amount json.Number) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}
}

// NewRewardTx constructs the transaction that credits the miner of a block.
func NewRewardTx(recipient string) Tx {
	return NewTx(RewardSender, recipient, "1")
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%s", tx.Sender, tx.Recipient, tx.Amount)
}
