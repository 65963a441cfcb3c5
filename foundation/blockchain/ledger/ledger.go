// Package ledger owns the authoritative local chain and the pool of
// transactions waiting to be sealed into the next block.
package ledger

import (
	"errors"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
)

// ErrChainMoved is returned when a block is sealed on top of a parent that
// is no longer the latest block of the chain.
var ErrChainMoved = errors.New("chain moved past the mined parent block")

// =============================================================================

// Ledger manages the chain of blocks and the mempool. Every change to either
// happens under a single lock so readers never observe a block that has been
// sealed without its transactions being removed from the pool.
type Ledger struct {
	mu        sync.RWMutex
	chain     []database.Block
	mempool   *mempool.Mempool
	evHandler func(v string, args ...any)
}

// New constructs a ledger holding just the genesis block.
func New(evHandler func(v string, args ...any)) *Ledger {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	genesis := database.NewGenesisBlock()
	ev("ledger: New: genesis: blk[%d]: hash[%s]", genesis.Index, genesis.Hash())

	return &Ledger{
		chain:     []database.Block{genesis},
		mempool:   mempool.New(),
		evHandler: ev,
	}
}

// NewTransaction adds the transaction to the mempool and returns the index
// of the block that is expected to hold it.
func (l *Ledger) NewTransaction(tx database.Tx) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.mempool.Add(tx)
	l.evHandler("ledger: NewTransaction: tx[%s]", tx)

	return l.latestBlock().Index + 1
}

// NewBlock seals the mempool into a new block with the specified proof. When
// previousHash is empty the hash of the latest block is used.
func (l *Ledger) NewBlock(proof int64, previousHash string) database.Block {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.newBlock(proof, previousHash)
}

// WriteNextBlock adds the reward to the mempool and seals a new block on top
// of parent. If parent is no longer the latest block nothing changes and
// ErrChainMoved is returned.
func (l *Ledger) WriteNextBlock(parent database.Block, proof int64, reward database.Tx) (database.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	parentHash := parent.Hash()
	if l.latestBlock().Hash() != parentHash {
		return database.Block{}, ErrChainMoved
	}

	l.mempool.Add(reward)

	return l.newBlock(proof, parentHash), nil
}

// LatestBlock returns the last block in the chain.
func (l *Ledger) LatestBlock() database.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.latestBlock()
}

// Length returns the number of blocks in the chain.
func (l *Ledger) Length() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.chain)
}

// CopyChain returns a copy of the chain.
func (l *Ledger) CopyChain() []database.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	chain := make([]database.Block, len(l.chain))
	copy(chain, l.chain)

	return chain
}

// CopyMempool returns the pending transactions in submission order.
func (l *Ledger) CopyMempool() []database.Tx {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.mempool.Copy()
}

// ReplaceChain swaps the chain for the candidate if the candidate is still
// longer than the current chain. The mempool is left untouched. The caller
// is responsible for validating the candidate.
func (l *Ledger) ReplaceChain(candidate []database.Block) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(candidate) <= len(l.chain) {
		l.evHandler("ledger: ReplaceChain: rejected: candidate[%d]: current[%d]", len(candidate), len(l.chain))
		return false
	}

	chain := make([]database.Block, len(candidate))
	copy(chain, candidate)
	l.chain = chain

	l.evHandler("ledger: ReplaceChain: replaced: length[%d]", len(chain))

	return true
}

// =============================================================================

// newBlock must be called while holding the write lock.
func (l *Ledger) newBlock(proof int64, previousHash string) database.Block {
	if previousHash == "" {
		previousHash = l.latestBlock().Hash()
	}

	block := database.Block{
		Index:        len(l.chain) + 1,
		Timestamp:    database.Now(),
		Transactions: l.mempool.Drain(),
		Proof:        proof,
		PreviousHash: previousHash,
	}

	l.chain = append(l.chain, block)

	l.evHandler("ledger: newBlock: blk[%d]: txs[%d]: proof[%d]", block.Index, len(block.Transactions), block.Proof)

	return block
}

// latestBlock must be called while holding a lock.
func (l *Ledger) latestBlock() database.Block {
	if len(l.chain) == 0 {
		panic("ledger: chain is empty, the genesis block is missing")
	}

	return l.chain[len(l.chain)-1]
}
