// Package peer maintains the peer related information such as the set
// of known peers and how to talk to them.
package peer

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Peer represents information about a Node in the network.
type Peer struct {
	Host string
}

// New contructs a new info value.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// Parse extracts the network location from an address such as
// http://192.168.0.5:5000 and returns it as a peer. An address without a
// network location is rejected with an InvalidAddress error.
func Parse(address string) (Peer, error) {
	u, err := url.Parse(strings.TrimSpace(address))
	if err != nil {
		return Peer{}, &Error{Kind: InvalidAddress, Address: address, Err: err}
	}

	if u.Host == "" {
		return Peer{}, &Error{Kind: InvalidAddress, Address: address, Err: fmt.Errorf("no network location in %q", address)}
	}

	return New(strings.ToLower(u.Host)), nil
}

// String implements the fmt.Stringer interface.
func (p Peer) String() string {
	return p.Host
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new node to the set. It reports false when the node was
// already known.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, peer)
}

// Len returns the number of known peers.
func (ps *PeerSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.set)
}

// Copy returns the known peers ordered by host.
func (ps *PeerSet) Copy() []Peer {
	ps.mu.RLock()
	peers := make([]Peer, 0, len(ps.set))
	for peer := range ps.set {
		peers = append(peers, peer)
	}
	ps.mu.RUnlock()

	sort.Slice(peers, func(i, j int) bool {
		return peers[i].Host < peers[j].Host
	})

	return peers
}
