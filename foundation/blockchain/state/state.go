// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// EventHandler defines a function that is called when events
// occur in the processing of the blockchain.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing background support for the node.
type Worker interface {
	Shutdown()
}

// Transport interface represents the behavior required to talk to the other
// nodes in the network.
type Transport interface {
	QueryIdentity(ctx context.Context, host string) (string, error)
	QueryChain(ctx context.Context, host string) (int, []database.Block, error)
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Identity    string
	Difficulty  int
	KnownPeers  *peer.PeerSet
	Transport   Transport
	PeerTimeout time.Duration
	EvHandler   EventHandler
}

// State manages the blockchain ledger and the set of known peers.
type State struct {
	identity    string
	difficulty  int
	peerTimeout time.Duration
	evHandler   EventHandler

	shut     chan struct{}
	shutOnce sync.Once

	knownPeers *peer.PeerSet
	transport  Transport
	ledger     *ledger.Ledger

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {
	if cfg.Identity == "" {
		return nil, errors.New("node identity is required")
	}

	if cfg.Transport == nil {
		return nil, errors.New("transport is required")
	}

	if cfg.Difficulty < 0 || cfg.Difficulty > 64 {
		return nil, fmt.Errorf("difficulty %d out of range [0, 64]", cfg.Difficulty)
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	// Create the State to provide support for managing the blockchain.
	state := State{
		identity:    cfg.Identity,
		difficulty:  cfg.Difficulty,
		peerTimeout: cfg.PeerTimeout,
		evHandler:   ev,
		shut:        make(chan struct{}),

		knownPeers: knownPeers,
		transport:  cfg.Transport,
		ledger:     ledger.New(ev),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down. Any mining in progress is cancelled.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	s.shutOnce.Do(func() {
		close(s.shut)
	})

	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// =============================================================================

// peerContext bounds a single call to a peer by the configured timeout.
func (s *State) peerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.peerTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.peerTimeout)
}
