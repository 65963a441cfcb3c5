package public

import (
	"encoding/json"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

type identity struct {
	ID string `json:"id"`
}

type newTx struct {
	Sender    string      `json:"sender" validate:"required"`
	Recipient string      `json:"recipient" validate:"required"`
	Amount    json.Number `json:"amount" validate:"required"`
}

type mined struct {
	Message      string        `json:"message"`
	Index        int           `json:"index"`
	Transactions []database.Tx `json:"transactions"`
	Proof        int64         `json:"proof"`
	PreviousHash string        `json:"previous_hash"`
}

type message struct {
	Message string `json:"message"`
}

type chain struct {
	Chain  []database.Block `json:"chain"`
	Length int              `json:"length"`
}

type pending struct {
	Transactions []database.Tx `json:"transactions"`
	Length       int           `json:"length"`
}

type registerNodes struct {
	Nodes []string `json:"nodes" validate:"required"`
}

type nodes struct {
	Message    string   `json:"message,omitempty"`
	TotalNodes []string `json:"total_nodes"`
	Failures   []string `json:"failures,omitempty"`
}

type resolved struct {
	Message  string           `json:"message"`
	Chain    []database.Block `json:"chain,omitempty"`
	NewChain []database.Block `json:"new_chain,omitempty"`
}
