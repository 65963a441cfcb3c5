package state

import (
	"context"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// RegisterResult captures the outcome of registering a batch of addresses.
type RegisterResult struct {
	Registered int
	Peers      []peer.Peer
	Failures   []error
}

// RegisterPeer normalizes the address, asks the node behind it for its
// identity and adds it to the set of known peers. The error returned is a
// *peer.Error carrying one of the InvalidAddress, SelfRegistration or
// Unreachable kinds. Registering a known peer again is not an error.
func (s *State) RegisterPeer(ctx context.Context, address string) (peer.Peer, error) {
	pr, err := peer.Parse(address)
	if err != nil {
		s.evHandler("state: RegisterPeer: address[%s]: ERROR: %s", address, err)
		return peer.Peer{}, err
	}

	ctx, cancel := s.peerContext(ctx)
	defer cancel()

	id, err := s.transport.QueryIdentity(ctx, pr.Host)
	if err != nil {
		s.evHandler("state: RegisterPeer: peer[%s]: queryIdentity: ERROR: %s", pr, err)
		return peer.Peer{}, &peer.Error{Kind: peer.Unreachable, Address: pr.Host, Err: err}
	}

	if id == s.identity {
		s.evHandler("state: RegisterPeer: peer[%s]: refusing to add this node", pr)
		return peer.Peer{}, &peer.Error{Kind: peer.SelfRegistration, Address: pr.Host}
	}

	if s.knownPeers.Add(pr) {
		s.evHandler("state: RegisterPeer: peer[%s]: added", pr)
	}

	return pr, nil
}

// RegisterPeers registers every address, continuing past failures, and
// reports how many succeeded, the resulting set of peers and every failure.
func (s *State) RegisterPeers(ctx context.Context, addresses []string) RegisterResult {
	var res RegisterResult
	for _, address := range addresses {
		if _, err := s.RegisterPeer(ctx, address); err != nil {
			res.Failures = append(res.Failures, err)
			continue
		}
		res.Registered++
	}

	res.Peers = s.knownPeers.Copy()

	return res
}

// RemoveKnownPeer provides the ability to remove a peer from
// the known peer list.
func (s *State) RemoveKnownPeer(pr peer.Peer) {
	s.knownPeers.Remove(pr)
}
