package database

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Values that define the genesis block every ledger starts with.
const (
	GenesisProof        int64  = 100
	GenesisPreviousHash string = "1"
)

// =============================================================================

// Block represents a group of transactions batched together and linked to
// the block before it by hash and proof of work.
type Block struct {
	Index        int     `json:"index"`         // Position in the chain, starting at 1.
	Timestamp    float64 `json:"timestamp"`     // Seconds since the unix epoch when the block was sealed.
	Transactions []Tx    `json:"transactions"`  // Transactions in submission order.
	Proof        int64   `json:"proof"`         // Nonce that solves the proof of work against the previous block.
	PreviousHash string  `json:"previous_hash"` // Hash of the previous block or "1" for genesis.
}

// NewGenesisBlock constructs the first block of a chain.
func NewGenesisBlock() Block {
	return Block{
		Index:        1,
		Timestamp:    Now(),
		Transactions: []Tx{},
		Proof:        GenesisProof,
		PreviousHash: GenesisPreviousHash,
	}
}

// Hash returns the unique hash for the Block. Two blocks with the same field
// values always produce the same hash, on any node.
func (b Block) Hash() string {
	var c canonical
	c.block(b)

	return hashHex(c.Bytes())
}

// IsGenesis reports whether the block carries the genesis linkage.
func (b Block) IsGenesis() bool {
	return b.Index == 1 && b.PreviousHash == GenesisPreviousHash
}

// =============================================================================

// hashHex returns the lowercase hex encoded sha256 of the data.
func hashHex(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Now returns the current time as fractional seconds since the unix epoch.
func Now() float64 {
	return float64(time.Now().UnixMicro()) / 1e6
}
