package pow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/forgechain/forge/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// A digest used as the previous block hash in the mid chain test cases.
const midChainHash = "a2dbb80616a4f046cbc6b39da13ab0b29f5e641e82a40404a3c8caee8475181b"

// =============================================================================

func Test_Verify(t *testing.T) {
	type table struct {
		name       string
		difficulty uint
		lastProof  uint64
		proof      uint64
		lastHash   string
		solved     bool
	}

	tt := []table{
		{"solution after genesis", 1, 100, 15, "1", true},
		{"one below the solution", 1, 100, 14, "1", false},
		{"one above the solution", 1, 100, 16, "1", false},
		{"wrong last proof", 1, 99, 15, "1", false},
		{"wrong last hash", 1, 100, 15, "2", false},
		{"one zero is not two", 2, 100, 15, "1", false},
		{"two zeros", 2, 100, 378, "1", true},
		{"three zeros", 3, 100, 7116, "1", true},
		{"zero difficulty accepts anything", 0, 100, 0, "1", true},
		{"mid chain solution", 2, 35293, 127, midChainHash, true},
		{"mid chain wrong proof", 2, 35293, 126, midChainHash, false},
	}

	t.Log("Given the need to validate proofs against the work problem.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen checking proof %d at difficulty %d.", testID, tst.proof, tst.difficulty)
			{
				f := func(t *testing.T) {
					solved := pow.Verify(tst.difficulty, tst.lastProof, tst.proof, tst.lastHash)
					if solved != tst.solved {
						t.Fatalf("\t%s\tTest %d:\tShould get a %v verification.", failed, testID, tst.solved)
					}
					t.Logf("\t%s\tTest %d:\tShould get a %v verification.", success, testID, tst.solved)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_Solve(t *testing.T) {
	type table struct {
		name       string
		difficulty uint
		lastProof  uint64
		lastHash   string
		proof      uint64
	}

	// The expected proofs are the first values the linear search can reach,
	// so the results are exact.
	tt := []table{
		{"one zero", 1, 100, "1", 15},
		{"two zeros", 2, 100, "1", 378},
		{"three zeros", 3, 100, "1", 7116},
		{"mid chain", 3, 35293, midChainHash, 790},
	}

	t.Log("Given the need to solve the work problem.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen solving at difficulty %d.", testID, tst.difficulty)
			{
				f := func(t *testing.T) {
					proof, err := pow.Solve(context.Background(), tst.difficulty, tst.lastProof, tst.lastHash)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to solve the work problem: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to solve the work problem.", success, testID)

					if proof != tst.proof {
						t.Logf("\t\tTest %d:\tgot: %d", testID, proof)
						t.Logf("\t\tTest %d:\texp: %d", testID, tst.proof)
						t.Fatalf("\t%s\tTest %d:\tShould find the first satisfying proof.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould find the first satisfying proof.", success, testID)

					if !pow.Verify(tst.difficulty, tst.lastProof, proof, tst.lastHash) {
						t.Fatalf("\t%s\tTest %d:\tShould have a proof that verifies.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould have a proof that verifies.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_SolveCancelled(t *testing.T) {
	t.Log("Given the need to stop a search when the caller gives up.")
	{
		t.Logf("\tTest 0:\tWhen solving with a cancelled context.")
		{
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := pow.Solve(ctx, 5, 100, "1"); !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest 0:\tShould get back the context error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the context error.", success)
		}
	}
}

func Test_SolveWithLimit(t *testing.T) {
	type table struct {
		name       string
		difficulty uint
		limit      uint64
		proof      uint64
		err        error
	}

	// At difficulty 2 the first proof from the genesis state is 378, so a
	// limit of 378 tries proofs 0 through 377 and comes up empty while a
	// limit of 379 reaches it.
	tt := []table{
		{"limit exhausted", 10, 50, 0, pow.ErrProofNotFound},
		{"limit one short", 2, 378, 0, pow.ErrProofNotFound},
		{"limit just enough", 2, 379, 378, nil},
		{"zero limit is unbounded", 1, 0, 15, nil},
	}

	t.Log("Given the need to cap the iterations spent on the work problem.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen solving at difficulty %d with limit %d.", testID, tst.difficulty, tst.limit)
			{
				f := func(t *testing.T) {
					proof, err := pow.SolveWithLimit(context.Background(), tst.difficulty, tst.limit, 100, "1")
					if !errors.Is(err, tst.err) {
						t.Fatalf("\t%s\tTest %d:\tShould get error %v: %v", failed, testID, tst.err, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get error %v.", success, testID, tst.err)

					if err == nil && proof != tst.proof {
						t.Logf("\t\tTest %d:\tgot: %d", testID, proof)
						t.Logf("\t\tTest %d:\texp: %d", testID, tst.proof)
						t.Fatalf("\t%s\tTest %d:\tShould find the first satisfying proof.", failed, testID)
					}
					if err == nil {
						t.Logf("\t%s\tTest %d:\tShould find the first satisfying proof.", success, testID)
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}
