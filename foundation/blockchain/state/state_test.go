package state_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	identity   = "4f1c2a0b9e7d46a5b3c8d2e1f0a9b8c7"
	difficulty = 1
)

// node is how a fake peer answers.
type node struct {
	id     string
	length int
	chain  []database.Block
	err    error
}

// transport is a state.Transport backed by a map of fake peers.
type transport map[string]node

func (tr transport) QueryIdentity(ctx context.Context, host string) (string, error) {
	n, exists := tr[host]
	if !exists {
		return "", fmt.Errorf("dial %s: connection refused", host)
	}
	if n.err != nil {
		return "", n.err
	}
	return n.id, nil
}

func (tr transport) QueryChain(ctx context.Context, host string) (int, []database.Block, error) {
	n, exists := tr[host]
	if !exists {
		return 0, nil, fmt.Errorf("dial %s: connection refused", host)
	}
	if n.err != nil {
		return 0, nil, n.err
	}
	return n.length, n.chain, nil
}

func newState(t *testing.T, tr transport) *state.State {
	st, err := state.New(state.Config{
		Identity:    identity,
		Difficulty:  difficulty,
		Transport:   tr,
		PeerTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}
	return st
}

// buildChain mines a valid chain of the specified length. The recipient of
// the transaction in every block makes the chain unique.
func buildChain(t *testing.T, length int, recipient string) []database.Block {
	l := ledger.New(nil)

	for l.Length() < length {
		l.NewTransaction(database.NewTx("bill", recipient, "1"))

		proof, err := database.Mine(context.Background(), difficulty, l.LatestBlock(), nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine: %v", failed, err)
		}
		l.NewBlock(proof, "")
	}

	return l.CopyChain()
}

// =============================================================================

func Test_New(t *testing.T) {
	type table struct {
		name string
		cfg  state.Config
	}

	tt := []table{
		{name: "identity", cfg: state.Config{Transport: transport{}}},
		{name: "transport", cfg: state.Config{Identity: identity}},
		{name: "negative", cfg: state.Config{Identity: identity, Transport: transport{}, Difficulty: -1}},
		{name: "toohigh", cfg: state.Config{Identity: identity, Transport: transport{}, Difficulty: 65}},
	}

	t.Log("Given the need to reject a bad configuration.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a missing or bad %s.", testID, tst.name)
			{
				if _, err := state.New(tst.cfg); err == nil {
					t.Fatalf("\t%s\tTest %d:\tShould get an error.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get an error.", success, testID)
			}
		}
	}
}

func Test_MineNewBlock(t *testing.T) {
	t.Log("Given the need to mine a block with the pending transactions.")
	{
		st := newState(t, transport{})

		tx := database.NewTx("a", "b", "5")
		if idx := st.SubmitTransaction(tx); idx != 2 {
			t.Fatalf("\t%s\tShould get back block index 2: got %d.", failed, idx)
		}
		t.Logf("\t%s\tShould get back block index 2.", success)

		genesis := st.RetrieveLatestBlock()

		block, err := st.MineNewBlock(context.Background())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine.", success)

		if block.Index != 2 || block.PreviousHash != genesis.Hash() {
			t.Fatalf("\t%s\tShould link the block to genesis: got %+v.", failed, block)
		}
		t.Logf("\t%s\tShould link the block to genesis.", success)

		if !database.ValidProof(difficulty, genesis.Proof, block.Proof, genesis.Hash()) {
			t.Fatalf("\t%s\tShould have a valid proof.", failed)
		}
		t.Logf("\t%s\tShould have a valid proof.", success)

		exp := []database.Tx{tx, database.NewTx(database.RewardSender, identity, "1")}
		if len(block.Transactions) != len(exp) || block.Transactions[0] != exp[0] || block.Transactions[1] != exp[1] {
			t.Fatalf("\t%s\tShould seal the transaction and then the reward: got %v.", failed, block.Transactions)
		}
		t.Logf("\t%s\tShould seal the transaction and then the reward.", success)

		if len(st.RetrieveMempool()) != 0 || len(st.RetrieveChain()) != 2 {
			t.Fatalf("\t%s\tShould have an empty mempool and two blocks.", failed)
		}
		t.Logf("\t%s\tShould have an empty mempool and two blocks.", success)

		if _, err := st.MineNewBlock(context.Background()); err != nil {
			t.Fatalf("\t%s\tShould be able to mine with an empty mempool: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine with an empty mempool.", success)

		if !database.ValidateChain(st.RetrieveChain(), difficulty) {
			t.Fatalf("\t%s\tShould have a valid chain.", failed)
		}
		t.Logf("\t%s\tShould have a valid chain.", success)
	}
}

func Test_MineShutdown(t *testing.T) {
	t.Log("Given the need to stop mining when the node shuts down.")
	{
		st, err := state.New(state.Config{
			Identity:   identity,
			Difficulty: 64,
			Transport:  transport{},
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
		}

		errCh := make(chan error, 1)
		go func() {
			_, err := st.MineNewBlock(context.Background())
			errCh <- err
		}()

		time.Sleep(20 * time.Millisecond)
		st.Shutdown()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tShould get back a cancellation error: got %v.", failed, err)
			}
			t.Logf("\t%s\tShould get back a cancellation error.", success)

		case <-time.After(5 * time.Second):
			t.Fatalf("\t%s\tShould stop mining after shutdown.", failed)
		}

		if len(st.RetrieveChain()) != 1 {
			t.Fatalf("\t%s\tShould not add a block.", failed)
		}
		t.Logf("\t%s\tShould not add a block.", success)
	}
}

func Test_RegisterPeers(t *testing.T) {
	tr := transport{
		"node1:5000": {id: "node1"},
		"node2:5000": {id: "node2"},
		"self:5000":  {id: identity},
		"down:5000":  {err: context.DeadlineExceeded},
	}

	t.Log("Given the need to register a batch of peers.")
	{
		st := newState(t, tr)

		res := st.RegisterPeers(context.Background(), []string{
			"http://node2:5000",
			"not a url",
			"http://self:5000",
			"http://NODE1:5000",
			"http://node2:5000/chain",
			"http://down:5000",
		})

		if res.Registered != 3 {
			t.Fatalf("\t%s\tShould register three addresses: got %d.", failed, res.Registered)
		}
		t.Logf("\t%s\tShould register three addresses.", success)

		exp := []peer.Peer{peer.New("node1:5000"), peer.New("node2:5000")}
		if len(res.Peers) != len(exp) || res.Peers[0] != exp[0] || res.Peers[1] != exp[1] {
			t.Fatalf("\t%s\tShould hold two distinct peers: got %v.", failed, res.Peers)
		}
		t.Logf("\t%s\tShould hold two distinct peers.", success)

		kinds := []error{peer.ErrInvalidAddress, peer.ErrSelfRegistration, peer.ErrUnreachable}
		if len(res.Failures) != len(kinds) {
			t.Fatalf("\t%s\tShould report three failures: got %v.", failed, res.Failures)
		}
		for i, kind := range kinds {
			if !errors.Is(res.Failures[i], kind) {
				t.Fatalf("\t%s\tShould report %v for failure %d: got %v.", failed, kind, i, res.Failures[i])
			}
		}
		t.Logf("\t%s\tShould report each failure by kind in order.", success)

		if _, err := st.RegisterPeer(context.Background(), "http://self:5000"); peer.KindOf(err) != peer.SelfRegistration {
			t.Fatalf("\t%s\tShould never add this node: got %v.", failed, err)
		}
		t.Logf("\t%s\tShould never add this node.", success)

		st.RemoveKnownPeer(peer.New("node1:5000"))
		if peers := st.RetrieveKnownPeers(); len(peers) != 1 || peers[0].Host != "node2:5000" {
			t.Fatalf("\t%s\tShould be able to remove a peer: got %v.", failed, peers)
		}
		t.Logf("\t%s\tShould be able to remove a peer.", success)
	}
}

func Test_Resolve(t *testing.T) {
	longA := buildChain(t, 4, "a")
	longB := buildChain(t, 4, "b")

	tampered := buildChain(t, 6, "c")
	tampered[3].Transactions = []database.Tx{database.NewTx("bill", "mallory", "1000")}

	short := buildChain(t, 3, "d")

	tr := transport{
		"a:5000":     {id: "a", length: len(longA), chain: longA},
		"b:5000":     {id: "b", length: len(longB), chain: longB},
		"c:5000":     {id: "c", length: len(tampered), chain: tampered},
		"d:5000":     {id: "d", length: 9, chain: short},
		"e:5000":     {id: "e", length: 2, chain: buildChain(t, 2, "e")},
		"gone:5000":  {id: "gone"},
		"alive:5000": {id: "alive", length: 1, chain: buildChain(t, 1, "f")},
	}

	t.Log("Given the need to resolve the chain against peers.")
	{
		st := newState(t, tr)

		for host := range tr {
			if _, err := st.RegisterPeer(context.Background(), "http://"+host); err != nil {
				t.Fatalf("\t%s\tShould be able to register %s: %v", failed, host, err)
			}
		}

		// The peer goes down after registration.
		tr["gone:5000"] = node{err: errors.New("connection reset")}

		pending := database.NewTx("x", "y", "1")
		st.SubmitTransaction(pending)

		replaced, chain := st.ResolveConsensus(context.Background())
		if !replaced {
			t.Fatalf("\t%s\tShould replace the chain.", failed)
		}
		t.Logf("\t%s\tShould replace the chain.", success)

		if len(chain) != len(longA) || chain[len(chain)-1].Hash() != longA[len(longA)-1].Hash() {
			t.Fatalf("\t%s\tShould adopt the first longest valid chain in host order.", failed)
		}
		t.Logf("\t%s\tShould adopt the first longest valid chain in host order.", success)

		for _, pr := range st.RetrieveKnownPeers() {
			if pr.Host == "gone:5000" {
				t.Fatalf("\t%s\tShould remove the unreachable peer.", failed)
			}
		}
		if len(st.RetrieveKnownPeers()) != len(tr)-1 {
			t.Fatalf("\t%s\tShould keep every other peer: got %v.", failed, st.RetrieveKnownPeers())
		}
		t.Logf("\t%s\tShould remove only the unreachable peer.", success)

		if mp := st.RetrieveMempool(); len(mp) != 1 || mp[0] != pending {
			t.Fatalf("\t%s\tShould keep the pending transactions: got %v.", failed, mp)
		}
		t.Logf("\t%s\tShould keep the pending transactions.", success)

		replaced, chain = st.ResolveConsensus(context.Background())
		if replaced || len(chain) != len(longA) {
			t.Fatalf("\t%s\tShould keep the chain when no peer has a longer one.", failed)
		}
		t.Logf("\t%s\tShould keep the chain when no peer has a longer one.", success)
	}
}

func Test_ResolveNoPeers(t *testing.T) {
	t.Log("Given the need to resolve without any peers.")
	{
		st := newState(t, transport{})

		replaced, chain := st.ResolveConsensus(context.Background())
		if replaced || len(chain) != 1 {
			t.Fatalf("\t%s\tShould keep the genesis chain.", failed)
		}
		t.Logf("\t%s\tShould keep the genesis chain.", success)
	}
}
