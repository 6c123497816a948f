// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/forgechain/forge/business/sys/validate"
	"github.com/forgechain/forge/business/web/errs"
	"github.com/forgechain/forge/foundation/blockchain/ledger"
	"github.com/forgechain/forge/foundation/blockchain/peer"
	"github.com/forgechain/forge/foundation/events"
	"github.com/forgechain/forge/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public node endpoints.
type Handlers struct {
	Log      *zap.SugaredLogger
	Ledger   *ledger.Ledger
	Registry *peer.PeerSet
	WS       websocket.Upgrader
	Evts     *events.Events
}

// Mine forges the next block in the chain, awarding this node the mining
// reward. The request blocks until the work problem is solved.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	block, err := h.Ledger.MineNewBlock(ctx)
	if err != nil {

		// A chain without blocks means the genesis invariant is broken
		// and the node cannot be trusted to keep running.
		if errors.Is(err, ledger.ErrEmptyChain) {
			return web.NewShutdownError(err.Error())
		}
		return fmt.Errorf("unable to mine block: %w", err)
	}

	h.Log.Infow("block forged", "traceid", v.TraceID, "block", block.Index, "proof", block.Proof)

	resp := mineResponse{
		Message:      "New Block Forged",
		Index:        block.Index,
		Transactions: block.Transactions,
		Proof:        block.Proof,
		PreviousHash: block.PreviousHash,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the pending pool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var newTx newTxRequest
	if err := web.Decode(r, &newTx); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(newTx); err != nil {
		return err
	}

	index := h.Ledger.SubmitTransaction(*newTx.Sender, *newTx.Recipient, *newTx.Amount)

	h.Log.Infow("add tran", "traceid", v.TraceID, "sender", *newTx.Sender, "recipient", *newTx.Recipient,
		"amount", *newTx.Amount, "block", index)

	resp := submitResponse{
		Message: fmt.Sprintf("Transaction will be added to Block %d", index),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Chain returns the full chain and its length.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.Ledger.RetrieveChain()

	resp := chainResponse{
		Chain:  chain,
		Length: len(chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// PendingTransactions returns the transactions waiting in the pool.
func (h Handlers) PendingTransactions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	txs := h.Ledger.RetrievePendingTransactions()

	resp := pendingResponse{
		Transactions: txs,
		Count:        len(txs),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Nodes returns the hosts this node knows about. Registration and chain
// resolution are not implemented, so the set only ever reflects
// configuration.
func (h Handlers) Nodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	peers := h.Registry.Copy("")

	hosts := make([]string, len(peers))
	for i, peer := range peers {
		hosts[i] = peer.Host
	}
	sort.Strings(hosts)

	resp := nodesResponse{
		Nodes: hosts,
		Count: len(hosts),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	h.Log.Infow("events socket open", "traceid", v.TraceID)
	defer h.Log.Infow("events socket closed", "traceid", v.TraceID)

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	// Ping the client on an interval so half-open sockets are noticed.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
