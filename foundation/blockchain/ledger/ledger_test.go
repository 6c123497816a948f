package ledger_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/forgechain/forge/foundation/blockchain/genesis"
	"github.com/forgechain/forge/foundation/blockchain/ledger"
	"github.com/forgechain/forge/foundation/blockchain/pow"
)

// =============================================================================

func newLedger(t *testing.T, difficulty uint, solveLimit uint64) *ledger.Ledger {
	t.Helper()

	l, err := ledger.New(ledger.Config{
		MinerID: "test-node",
		Genesis: genesis.Genesis{
			Name:         "testchain",
			Difficulty:   difficulty,
			MiningReward: 1,
		},
		SolveLimit: solveLimit,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a ledger: %v", failed, err)
	}

	return l
}

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to open every chain with the genesis block.")
	{
		t.Logf("\tTest 0:\tWhen constructing a new ledger.")
		{
			var events int64
			l, err := ledger.New(ledger.Config{
				MinerID: "test-node",
				Genesis: genesis.Genesis{Name: "testchain", Difficulty: 5, MiningReward: 1},
				EvHandler: func(v string, args ...any) {
					atomic.AddInt64(&events, 1)
				},
			})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct a ledger: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to construct a ledger.", success)

			if length := l.QueryChainLength(); length != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould have a chain of one block: got %d.", failed, length)
			}
			t.Logf("\t%s\tTest 0:\tShould have a chain of one block.", success)

			block, err := l.RetrieveLatestBlock()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to retrieve the latest block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to retrieve the latest block.", success)

			if block.Index != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould have index 1: got %d.", failed, block.Index)
			}
			t.Logf("\t%s\tTest 0:\tShould have index 1.", success)

			if block.Proof != ledger.GenesisProof {
				t.Fatalf("\t%s\tTest 0:\tShould carry the genesis proof: got %d.", failed, block.Proof)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the genesis proof.", success)

			if block.PreviousHash != ledger.GenesisPreviousHash {
				t.Fatalf("\t%s\tTest 0:\tShould carry the genesis previous hash: got %q.", failed, block.PreviousHash)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the genesis previous hash.", success)

			if len(block.Transactions) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould carry no transactions: got %d.", failed, len(block.Transactions))
			}
			t.Logf("\t%s\tTest 0:\tShould carry no transactions.", success)

			if block.Timestamp <= 0 {
				t.Fatalf("\t%s\tTest 0:\tShould carry a positive timestamp: got %f.", failed, block.Timestamp)
			}
			t.Logf("\t%s\tTest 0:\tShould carry a positive timestamp.", success)

			if len(l.RetrievePendingTransactions()) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould start with an empty pool.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould start with an empty pool.", success)

			if atomic.LoadInt64(&events) == 0 {
				t.Fatalf("\t%s\tTest 0:\tShould have emitted events.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have emitted events.", success)
		}
	}
}

func Test_SubmitTransaction(t *testing.T) {
	t.Log("Given the need to pool transactions for the next block.")
	{
		t.Logf("\tTest 0:\tWhen submitting transactions to a fresh ledger.")
		{
			l := newLedger(t, 5, 0)

			index := l.SubmitTransaction("alice", "bob", 5)
			if index != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould report the transaction lands in block 2: got %d.", failed, index)
			}
			t.Logf("\t%s\tTest 0:\tShould report the transaction lands in block 2.", success)

			if index := l.SubmitTransaction("bob", "carol", 3); index != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould report the same block until one is forged: got %d.", failed, index)
			}
			t.Logf("\t%s\tTest 0:\tShould report the same block until one is forged.", success)

			txs := l.RetrievePendingTransactions()
			if len(txs) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould have two transactions in the pool: got %d.", failed, len(txs))
			}
			t.Logf("\t%s\tTest 0:\tShould have two transactions in the pool.", success)

			exp := ledger.Tx{Amount: 5, Recipient: "bob", Sender: "alice"}
			if txs[0] != exp {
				t.Fatalf("\t%s\tTest 0:\tShould keep the transaction values: got %+v.", failed, txs[0])
			}
			t.Logf("\t%s\tTest 0:\tShould keep the transaction values.", success)

			if length := l.QueryChainLength(); length != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould not have grown the chain: got %d.", failed, length)
			}
			t.Logf("\t%s\tTest 0:\tShould not have grown the chain.", success)
		}
	}
}

func Test_MineNewBlock(t *testing.T) {
	t.Log("Given the need to forge pooled transactions into the next block.")
	{
		t.Logf("\tTest 0:\tWhen mining after a submission.")
		{
			l := newLedger(t, 1, 0)

			genesisBlock, err := l.RetrieveLatestBlock()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to retrieve the genesis block: %v", failed, err)
			}

			index := l.SubmitTransaction("alice", "bob", 5)

			block, err := l.MineNewBlock(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine a block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine a block.", success)

			if block.Index != index {
				t.Fatalf("\t%s\tTest 0:\tShould forge the block the submission was promised: got %d exp %d.", failed, block.Index, index)
			}
			t.Logf("\t%s\tTest 0:\tShould forge the block the submission was promised.", success)

			if len(block.Transactions) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould carry the submission and the reward: got %d.", failed, len(block.Transactions))
			}
			t.Logf("\t%s\tTest 0:\tShould carry the submission and the reward.", success)

			if exp := (ledger.Tx{Amount: 5, Recipient: "bob", Sender: "alice"}); block.Transactions[0] != exp {
				t.Fatalf("\t%s\tTest 0:\tShould carry the submitted transaction first: got %+v.", failed, block.Transactions[0])
			}
			t.Logf("\t%s\tTest 0:\tShould carry the submitted transaction first.", success)

			reward := block.Transactions[len(block.Transactions)-1]
			if exp := (ledger.Tx{Amount: 1, Recipient: "test-node", Sender: ledger.MintAccountID}); reward != exp {
				t.Fatalf("\t%s\tTest 0:\tShould award this node the mining reward: got %+v.", failed, reward)
			}
			t.Logf("\t%s\tTest 0:\tShould award this node the mining reward.", success)

			if block.PreviousHash != genesisBlock.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould link to the hash of the genesis block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould link to the hash of the genesis block.", success)

			if !pow.Verify(1, genesisBlock.Proof, block.Proof, genesisBlock.Hash()) {
				t.Fatalf("\t%s\tTest 0:\tShould carry a proof that verifies.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould carry a proof that verifies.", success)

			if len(l.RetrievePendingTransactions()) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould have cleared the pool.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have cleared the pool.", success)

			if length := l.QueryChainLength(); length != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould have a chain of two blocks: got %d.", failed, length)
			}
			t.Logf("\t%s\tTest 0:\tShould have a chain of two blocks.", success)
		}
	}
}

func Test_SequentialMines(t *testing.T) {
	t.Log("Given the need for consecutive blocks to chain together.")
	{
		t.Logf("\tTest 0:\tWhen mining two blocks back to back.")
		{
			l := newLedger(t, 1, 0)

			first, err := l.MineNewBlock(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the first block: %v", failed, err)
			}
			second, err := l.MineNewBlock(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the second block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine two blocks.", success)

			if first.Index != 2 || second.Index != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould forge indexes 2 and 3: got %d and %d.", failed, first.Index, second.Index)
			}
			t.Logf("\t%s\tTest 0:\tShould forge indexes 2 and 3.", success)

			chain := l.RetrieveChain()
			if len(chain) != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould have a chain of three blocks: got %d.", failed, len(chain))
			}
			t.Logf("\t%s\tTest 0:\tShould have a chain of three blocks.", success)

			for i := 1; i < len(chain); i++ {
				if chain[i].PreviousHash != chain[i-1].Hash() {
					t.Fatalf("\t%s\tTest 0:\tShould link block %d to the hash of block %d.", failed, chain[i].Index, chain[i-1].Index)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould link every block to the hash of its predecessor.", success)

			for _, block := range chain[1:] {
				if len(block.Transactions) != 1 {
					t.Fatalf("\t%s\tTest 0:\tShould carry only the reward in block %d: got %d.", failed, block.Index, len(block.Transactions))
				}
			}
			t.Logf("\t%s\tTest 0:\tShould carry only the reward in each mined block.", success)
		}
	}
}

func Test_ForgeBlockPreviousHash(t *testing.T) {
	t.Log("Given the need to control how a block links to its predecessor.")
	{
		t.Logf("\tTest 0:\tWhen forging with supplied and derived previous hashes.")
		{
			l := newLedger(t, 5, 0)

			block, err := l.ForgeBlock(7, "supplied-value")
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to forge a block: %v", failed, err)
			}
			if block.PreviousHash != "supplied-value" {
				t.Fatalf("\t%s\tTest 0:\tShould store a supplied previous hash untouched: got %q.", failed, block.PreviousHash)
			}
			t.Logf("\t%s\tTest 0:\tShould store a supplied previous hash untouched.", success)

			block, err = l.ForgeBlock(8, ledger.ZeroHash)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to forge a block: %v", failed, err)
			}
			if block.PreviousHash != ledger.ZeroHash {
				t.Fatalf("\t%s\tTest 0:\tShould store a zero digest untouched: got %q.", failed, block.PreviousHash)
			}
			t.Logf("\t%s\tTest 0:\tShould store a zero digest untouched.", success)

			latest, err := l.RetrieveLatestBlock()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to retrieve the latest block: %v", failed, err)
			}

			block, err = l.ForgeBlock(9, "")
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to forge a block: %v", failed, err)
			}
			if block.PreviousHash != latest.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould derive an absent previous hash from the latest block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould derive an absent previous hash from the latest block.", success)
		}
	}
}

func Test_MineCancelled(t *testing.T) {
	t.Log("Given the need to abandon mining when the caller gives up.")
	{
		t.Logf("\tTest 0:\tWhen mining with a cancelled context.")
		{
			l := newLedger(t, 5, 0)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := l.MineNewBlock(ctx); !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest 0:\tShould get back the context error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the context error.", success)

			if length := l.QueryChainLength(); length != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould not have grown the chain: got %d.", failed, length)
			}
			t.Logf("\t%s\tTest 0:\tShould not have grown the chain.", success)

			if len(l.RetrievePendingTransactions()) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould not have polluted the pool with a reward.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not have polluted the pool with a reward.", success)
		}
	}
}

func Test_MineSolveLimit(t *testing.T) {
	t.Log("Given the need to cap the work spent mining a block.")
	{
		t.Logf("\tTest 0:\tWhen the iteration limit runs out before a proof is found.")
		{
			l := newLedger(t, 10, 50)

			if _, err := l.MineNewBlock(context.Background()); !errors.Is(err, pow.ErrProofNotFound) {
				t.Fatalf("\t%s\tTest 0:\tShould get the proof not found error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get the proof not found error.", success)

			if length := l.QueryChainLength(); length != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould not have grown the chain: got %d.", failed, length)
			}
			t.Logf("\t%s\tTest 0:\tShould not have grown the chain.", success)
		}
	}
}

func Test_ConcurrentAccess(t *testing.T) {
	t.Log("Given the need to accept transactions from many goroutines.")
	{
		t.Logf("\tTest 0:\tWhen 20 goroutines submit at once.")
		{
			l := newLedger(t, 1, 0)

			var wg sync.WaitGroup
			wg.Add(20)
			for i := 0; i < 20; i++ {
				go func() {
					defer wg.Done()
					l.SubmitTransaction("alice", "bob", 1)
				}()
			}
			wg.Wait()

			if txs := l.RetrievePendingTransactions(); len(txs) != 20 {
				t.Fatalf("\t%s\tTest 0:\tShould have pooled all 20 transactions: got %d.", failed, len(txs))
			}
			t.Logf("\t%s\tTest 0:\tShould have pooled all 20 transactions.", success)

			block, err := l.MineNewBlock(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine a block: %v", failed, err)
			}
			if len(block.Transactions) != 21 {
				t.Fatalf("\t%s\tTest 0:\tShould forge all 20 plus the reward: got %d.", failed, len(block.Transactions))
			}
			t.Logf("\t%s\tTest 0:\tShould forge all 20 plus the reward.", success)
		}
	}
}

func Test_ConcurrentMines(t *testing.T) {
	t.Log("Given the need for concurrent mining calls to forge sequential blocks.")
	{
		t.Logf("\tTest 0:\tWhen two goroutines mine at once.")
		{
			l := newLedger(t, 1, 0)

			var wg sync.WaitGroup
			errs := make(chan error, 2)
			wg.Add(2)
			for i := 0; i < 2; i++ {
				go func() {
					defer wg.Done()
					if _, err := l.MineNewBlock(context.Background()); err != nil {
						errs <- err
					}
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine from both goroutines: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine from both goroutines.", success)

			chain := l.RetrieveChain()
			if len(chain) != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould have a chain of three blocks: got %d.", failed, len(chain))
			}
			t.Logf("\t%s\tTest 0:\tShould have a chain of three blocks.", success)

			for i := 1; i < len(chain); i++ {
				if chain[i].PreviousHash != chain[i-1].Hash() {
					t.Fatalf("\t%s\tTest 0:\tShould link block %d to the hash of block %d.", failed, chain[i].Index, chain[i-1].Index)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould link every block to the hash of its predecessor.", success)
		}
	}
}
