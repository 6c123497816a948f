package cmd

import (
	"time"

	"github.com/forgechain/forge/foundation/blockchain/ledger"
	"github.com/pterm/pterm"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type mineResponse struct {
	Message      string      `json:"message"`
	Index        uint64      `json:"index"`
	Transactions []ledger.Tx `json:"transactions"`
	Proof        uint64      `json:"proof"`
	PreviousHash string      `json:"previous_hash"`
}

// mineCmd represents the mine command
var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine the next block",
	RunE: func(cmd *cobra.Command, args []string) error {

		// The node blocks until the work problem is solved, so spin while
		// we wait.
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Solving the work problem..."),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		)

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(100 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					bar.Add(1)
				}
			}
		}()

		var resp mineResponse
		err := getJSON("/mine", &resp)
		close(done)
		bar.Finish()
		if err != nil {
			return err
		}

		pterm.Success.Println(resp.Message)
		pterm.Info.Printfln("index: %d", resp.Index)
		pterm.Info.Printfln("proof: %d", resp.Proof)
		pterm.Info.Printfln("previous hash: %s", resp.PreviousHash)
		for _, tx := range resp.Transactions {
			pterm.Info.Printfln("tx: %s -> %s amount %d", tx.Sender, tx.Recipient, tx.Amount)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
}
