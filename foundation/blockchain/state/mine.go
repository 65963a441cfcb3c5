package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
)

// MineNewBlock solves the proof of work for the latest block, rewards this
// node and seals the mempool into a new block. The lock on the ledger is not
// held while mining. If the chain moves on in the meantime, mining starts
// over on top of the new latest block. Mining stops when the context is
// cancelled or the node is shut down.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// This G exists to cancel the mining operation on shutdown.
	go func() {
		select {
		case <-s.shut:
			s.evHandler("state: MineNewBlock: MINING: CANCEL: shutdown")
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		parent := s.ledger.LatestBlock()

		s.evHandler("state: MineNewBlock: MINING: perform POW: prevBlk[%d]", parent.Index)

		proof, err := database.Mine(ctx, s.difficulty, parent, s.evHandler)
		if err != nil {
			return database.Block{}, err
		}

		block, err := s.ledger.WriteNextBlock(parent, proof, database.NewRewardTx(s.identity))
		if err != nil {
			if errors.Is(err, ledger.ErrChainMoved) {
				s.evHandler("state: MineNewBlock: MINING: chain moved: restarting")
				continue
			}
			return database.Block{}, err
		}

		s.evHandler("state: MineNewBlock: MINING: sealed: blk[%d]: hash[%s]", block.Index, block.Hash())

		return block, nil
	}
}
