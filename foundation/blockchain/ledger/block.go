package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Tx represents a transfer between two accounts. A transaction is
// appendable while it waits in the pending pool and immutable once it
// is placed in a block.
type Tx struct {
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
	Sender    string `json:"sender"`
}

// Block represents a group of transactions forged onto the chain. The
// fields are declared in the order their JSON keys sort so the encoded
// form is canonical and the hash reproduces byte for byte on every call.
type Block struct {
	Index        uint64  `json:"index"`         // Position in the chain, starting at 1.
	PreviousHash string  `json:"previous_hash"` // Hash of the previous block in the chain.
	Proof        uint64  `json:"proof"`         // Value identified to solve the work problem.
	Timestamp    float64 `json:"timestamp"`     // Seconds since epoch when the block was forged.
	Transactions []Tx    `json:"transactions"`  // Transactions carried by this block.
}

// Hash returns the unique hash for the Block. The block is encoded in its
// canonical JSON form and the digest is the lowercase hex encoding of
// the SHA-256 sum.
func (b Block) Hash() string {
	data, err := json.Marshal(b)
	if err != nil {
		return ZeroHash
	}

	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}
