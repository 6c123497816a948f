// Package pow implements the proof of work puzzle that gates the forging
// of new blocks.
package pow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrProofNotFound is returned from SolveWithLimit when the iteration
// limit is exhausted before a proof is identified.
var ErrProofNotFound = errors.New("proof not found within the iteration limit")

// =============================================================================

// Verify validates the specified proof against the proof and hash of the
// latest block. The decimal representations of both proofs and the hash are
// concatenated with no separator and the digest of that string must carry
// the difficulty number of leading zeros.
func Verify(difficulty uint, lastProof uint64, proof uint64, lastHash string) bool {
	guess := fmt.Sprintf("%d%d%s", lastProof, proof, lastHash)
	digest := sha256.Sum256([]byte(guess))

	return isHashSolved(difficulty, hex.EncodeToString(digest[:]))
}

// Solve performs a linear search starting at proof zero, incrementing by one,
// until a proof is found that satisfies Verify. The search is unbounded but
// can be cancelled through the context.
func Solve(ctx context.Context, difficulty uint, lastProof uint64, lastHash string) (uint64, error) {
	return SolveWithLimit(ctx, difficulty, 0, lastProof, lastHash)
}

// SolveWithLimit performs the same search as Solve but gives up with
// ErrProofNotFound once limit iterations have been attempted. A limit of
// zero means the search is unbounded.
func SolveWithLimit(ctx context.Context, difficulty uint, limit uint64, lastProof uint64, lastHash string) (uint64, error) {
	var proof uint64
	var attempts uint64

	// Loop until a solution is found or the search is cut short.
	for {

		// Did the caller give up waiting for a solution.
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}

		if Verify(difficulty, lastProof, proof, lastHash) {
			return proof, nil
		}

		proof++
		attempts++

		if limit > 0 && attempts >= limit {
			return 0, ErrProofNotFound
		}
	}
}

// isHashSolved checks the hash to make sure it complies with
// the difficulty rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty uint, hash string) bool {
	const match = "00000000000000000"

	if len(hash) != 64 {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}
