package state

import (
	"context"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// peerChain is the result of asking a peer for its chain.
type peerChain struct {
	length int
	chain  []database.Block
	err    error
}

// Resolve asks every known peer for its chain and replaces the local chain
// with the longest valid one, if any is longer than ours. Peers that can't be
// reached are removed from the known peer list. The peers are queried
// concurrently, but the candidates are compared in host order once every
// answer is in, so the first peer to reach a given length wins ties.
func (s *State) Resolve(ctx context.Context) bool {
	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	peers := s.knownPeers.Copy()
	maxLength := s.ledger.Length()

	results := make([]peerChain, len(peers))

	var wg sync.WaitGroup
	wg.Add(len(peers))
	for i, pr := range peers {
		go func() {
			defer wg.Done()

			ctx, cancel := s.peerContext(ctx)
			defer cancel()

			length, chain, err := s.transport.QueryChain(ctx, pr.Host)
			results[i] = peerChain{length: length, chain: chain, err: err}
		}()
	}
	wg.Wait()

	var best []database.Block
	for i, pr := range peers {
		res := results[i]

		if res.err != nil {
			s.evHandler("state: Resolve: peer[%s]: queryChain: ERROR: %s: removing", pr, res.err)
			s.knownPeers.Remove(pr)
			continue
		}

		if !s.acceptCandidate(pr, res, maxLength) {
			continue
		}

		s.evHandler("state: Resolve: peer[%s]: new best: length[%d]", pr, res.length)
		maxLength = res.length
		best = res.chain
	}

	if best == nil {
		s.evHandler("state: Resolve: our chain is authoritative")
		return false
	}

	return s.ledger.ReplaceChain(best)
}

// ResolveConsensus runs Resolve and returns the chain as it stands after.
func (s *State) ResolveConsensus(ctx context.Context) (bool, []database.Block) {
	replaced := s.Resolve(ctx)
	return replaced, s.ledger.CopyChain()
}

// acceptCandidate reports whether the chain returned by a peer should
// replace the best chain found so far.
func (s *State) acceptCandidate(pr peer.Peer, res peerChain, maxLength int) bool {
	if res.length <= maxLength {
		s.evHandler("state: Resolve: peer[%s]: length[%d] not longer than [%d]", pr, res.length, maxLength)
		return false
	}

	if res.length != len(res.chain) {
		s.evHandler("state: Resolve: peer[%s]: reported length[%d] but sent blocks[%d]", pr, res.length, len(res.chain))
		return false
	}

	if err := database.CheckChain(res.chain, s.difficulty); err != nil {
		s.evHandler("state: Resolve: peer[%s]: invalid chain: %s", pr, err)
		return false
	}

	return true
}
