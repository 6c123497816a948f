package public

import (
	"github.com/forgechain/forge/foundation/blockchain/ledger"
)

// newTxRequest is what a client submits to the transaction endpoint. The
// fields are pointers so a missing key can be told apart from a zero value.
type newTxRequest struct {
	Sender    *string `json:"sender" validate:"required"`
	Recipient *string `json:"recipient" validate:"required"`
	Amount    *int64  `json:"amount" validate:"required"`
}

type submitResponse struct {
	Message string `json:"message"`
}

type mineResponse struct {
	Message      string      `json:"message"`
	Index        uint64      `json:"index"`
	Transactions []ledger.Tx `json:"transactions"`
	Proof        uint64      `json:"proof"`
	PreviousHash string      `json:"previous_hash"`
}

type chainResponse struct {
	Chain  []ledger.Block `json:"chain"`
	Length int            `json:"length"`
}

type pendingResponse struct {
	Transactions []ledger.Tx `json:"transactions"`
	Count        int         `json:"count"`
}

type nodesResponse struct {
	Nodes []string `json:"nodes"`
	Count int      `json:"count"`
}
