// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/validate"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Identity returns the identity of this node.
func (h Handlers) Identity(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := identity{
		ID: h.State.RetrieveIdentity(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine solves the proof of work for the next block, rewards this node and
// seals the pending transactions into the new block.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.MineNewBlock(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return errs.NewTrusted(errors.New("mining cancelled"), http.StatusServiceUnavailable)
		}
		return fmt.Errorf("mining: %w", err)
	}

	resp := mined{
		Message:      "New Block Forged",
		Index:        block.Index,
		Transactions: block.Transactions,
		Proof:        block.Proof,
		PreviousHash: block.PreviousHash,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nt newTx
	if err := web.Decode(r, &nt); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(nt); err != nil {
		return err
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "sender", nt.Sender, "recipient", nt.Recipient, "amount", nt.Amount)

	index := h.State.SubmitTransaction(database.NewTx(nt.Sender, nt.Recipient, nt.Amount))

	resp := message{
		Message: fmt.Sprintf("Transaction will be added to Block %d", index),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Mempool returns the set of transactions waiting to be mined.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trans := h.State.RetrieveMempool()

	resp := pending{
		Transactions: trans,
		Length:       len(trans),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Chain returns the full chain held by this node.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.RetrieveChain()

	resp := chain{
		Chain:  blocks,
		Length: len(blocks),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// RegisterNodes adds the specified addresses to the set of known peers. Every
// address is processed even when some of them fail.
func (h Handlers) RegisterNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var rn registerNodes
	if err := web.Decode(r, &rn); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(rn); err != nil {
		return errs.NewTrusted(errors.New("please supply a valid list of nodes"), http.StatusBadRequest)
	}

	res := h.State.RegisterPeers(ctx, rn.Nodes)

	h.Log.Infow("register nodes", "traceid", v.TraceID, "registered", res.Registered, "failures", len(res.Failures))

	resp := nodes{
		TotalNodes: hosts(res.Peers),
		Failures:   failures(res.Failures),
	}

	if res.Registered > 0 {
		resp.Message = "New nodes have been added"
		return web.Respond(ctx, w, resp, http.StatusCreated)
	}

	resp.Message = "No nodes have been added"

	return web.Respond(ctx, w, resp, registerStatus(res.Failures))
}

// Nodes returns the set of known peers.
func (h Handlers) Nodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := nodes{
		TotalNodes: hosts(h.State.RetrieveKnownPeers()),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Resolve runs the consensus algorithm against the known peers.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, blocks := h.State.ResolveConsensus(ctx)

	var resp resolved
	switch replaced {
	case true:
		resp = resolved{
			Message:  "Our chain was replaced",
			NewChain: blocks,
		}
	default:
		resp = resolved{
			Message: "Our chain is authoritative",
			Chain:   blocks,
		}
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	traceID := web.GetTraceID(ctx)

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(traceID)
	defer h.Evts.Release(traceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// =============================================================================

// hosts converts the peers into the list of host strings returned to clients.
func hosts(peers []peer.Peer) []string {
	hosts := make([]string, len(peers))
	for i, pr := range peers {
		hosts[i] = pr.Host
	}
	return hosts
}

// failures returns the distinct error messages in sorted order.
func failures(list []error) []string {
	if len(list) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(list))
	for _, err := range list {
		set[err.Error()] = struct{}{}
	}

	msgs := make([]string, 0, len(set))
	for msg := range set {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)

	return msgs
}

// registerStatus picks the status code when no address was registered.
// Unreachable peers are a transient failure, anything else is the client's.
func registerStatus(list []error) int {
	if len(list) == 0 {
		return http.StatusOK
	}

	for _, err := range list {
		if peer.KindOf(err) != peer.Unreachable {
			return http.StatusBadRequest
		}
	}

	return http.StatusServiceUnavailable
}
