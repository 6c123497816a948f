// Package ledger is the core API for the chain and implements all the
// business rules for accepting transactions and forging blocks.
package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/forgechain/forge/foundation/blockchain/genesis"
	"github.com/forgechain/forge/foundation/blockchain/pow"
)

// Sentinel values assigned to the genesis block. The first block in the
// chain has no predecessor, so its proof and previous hash are fixed
// literals rather than computed values.
const (
	GenesisProof        uint64 = 100
	GenesisPreviousHash        = "1"
)

// MintAccountID is the sender recorded on mining reward transactions.
const MintAccountID = "0"

// ErrEmptyChain is returned when a block is asked to link to a previous
// block and the chain doesn't have one.
var ErrEmptyChain = errors.New("chain has no blocks")

// EventHandler defines a function that is called when events
// occur in the processing of forging blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	MinerID    string
	Genesis    genesis.Genesis
	SolveLimit uint64
	EvHandler  EventHandler
}

// Ledger manages the chain and the pending transaction pool.
type Ledger struct {
	minerID    string
	genesis    genesis.Genesis
	solveLimit uint64
	evHandler  EventHandler

	// One mutex guards the chain and the pool together since forging
	// moves transactions between them in a single step.
	mu      sync.RWMutex
	chain   []Block
	pending []Tx

	// Serializes whole mining runs so concurrent calls forge strictly
	// sequential blocks.
	mineMu sync.Mutex
}

// New constructs a new ledger and forges the genesis block.
func New(cfg Config) (*Ledger, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	l := Ledger{
		minerID:    cfg.MinerID,
		genesis:    cfg.Genesis,
		solveLimit: cfg.SolveLimit,
		evHandler:  ev,
	}

	// The chain always opens with the genesis block so every later
	// block has a predecessor to link to.
	if _, err := l.ForgeBlock(GenesisProof, GenesisPreviousHash); err != nil {
		return nil, err
	}

	ev("ledger: New: genesis forged: difficulty[%d] reward[%d]", cfg.Genesis.Difficulty, cfg.Genesis.MiningReward)

	return &l, nil
}

// =============================================================================

// SubmitTransaction appends a new transaction to the pending pool. The
// return is the index of the block that will carry this transaction once
// it is mined.
func (l *Ledger) SubmitTransaction(sender string, recipient string, amount int64) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = append(l.pending, Tx{
		Amount:    amount,
		Recipient: recipient,
		Sender:    sender,
	})

	nextIndex := l.chain[len(l.chain)-1].Index + 1

	l.evHandler("ledger: SubmitTransaction: pending[%d] block[%d]", len(l.pending), nextIndex)

	return nextIndex
}

// ForgeBlock creates the next block in the chain from the current pending
// pool and appends it. An empty previousHash means the value is derived
// from the latest block. A supplied value is stored untouched, zero
// digests included.
func (l *Ledger) ForgeBlock(proof uint64, previousHash string) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.forgeBlock(proof, previousHash)
}

// MineNewBlock performs the work to find a proof for the next block, awards
// this node the mining reward, and forges the block onto the chain. The
// call blocks until a proof is found or the context is cancelled.
func (l *Ledger) MineNewBlock(ctx context.Context) (Block, error) {
	l.mineMu.Lock()
	defer l.mineMu.Unlock()

	l.evHandler("ledger: MineNewBlock: MINING: started")
	defer l.evHandler("ledger: MineNewBlock: MINING: completed")

	latestBlock, err := l.RetrieveLatestBlock()
	if err != nil {
		return Block{}, err
	}
	latestHash := latestBlock.Hash()

	l.evHandler("ledger: MineNewBlock: MINING: solve the work problem: difficulty[%d]", l.genesis.Difficulty)

	proof, err := pow.SolveWithLimit(ctx, l.genesis.Difficulty, l.solveLimit, latestBlock.Proof, latestHash)
	if err != nil {
		return Block{}, err
	}

	// Check one more time the search was not cancelled at the finish line.
	if ctx.Err() != nil {
		return Block{}, ctx.Err()
	}

	l.evHandler("ledger: MineNewBlock: MINING: SOLVED: proof[%d]", proof)

	l.mu.Lock()
	defer l.mu.Unlock()

	// The reward lands in the pool before the block is forged so it rides
	// in the new block together with any transactions submitted while the
	// search was running.
	l.pending = append(l.pending, Tx{
		Amount:    l.genesis.MiningReward,
		Recipient: l.minerID,
		Sender:    MintAccountID,
	})

	return l.forgeBlock(proof, latestHash)
}

// =============================================================================

// RetrieveChain returns a copy of the full chain.
func (l *Ledger) RetrieveChain() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	chain := make([]Block, len(l.chain))
	copy(chain, l.chain)

	return chain
}

// RetrieveLatestBlock returns a copy of the current latest block.
func (l *Ledger) RetrieveLatestBlock() (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.chain) == 0 {
		return Block{}, ErrEmptyChain
	}

	return l.chain[len(l.chain)-1], nil
}

// RetrievePendingTransactions returns a copy of the pending pool.
func (l *Ledger) RetrievePendingTransactions() []Tx {
	l.mu.RLock()
	defer l.mu.RUnlock()

	txs := make([]Tx, len(l.pending))
	copy(txs, l.pending)

	return txs
}

// QueryChainLength returns the number of blocks in the chain.
func (l *Ledger) QueryChainLength() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.chain)
}

// =============================================================================

// forgeBlock performs the snapshot and append. Callers must hold the mutex.
func (l *Ledger) forgeBlock(proof uint64, previousHash string) (Block, error) {
	if previousHash == "" {
		if len(l.chain) == 0 {
			return Block{}, ErrEmptyChain
		}
		previousHash = l.chain[len(l.chain)-1].Hash()
	}

	// Snapshot the pool so the block owns its own copy of the
	// transactions and an empty pool still encodes as a list.
	txs := make([]Tx, len(l.pending))
	copy(txs, l.pending)

	block := Block{
		Index:        uint64(len(l.chain)) + 1,
		PreviousHash: previousHash,
		Proof:        proof,
		Timestamp:    float64(time.Now().UnixNano()) / 1e9,
		Transactions: txs,
	}

	l.pending = []Tx{}
	l.chain = append(l.chain, block)

	l.evHandler("ledger: forgeBlock: forged: block[%d] txs[%d]", block.Index, len(block.Transactions))

	return block, nil
}
