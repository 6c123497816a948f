package cmd

import (
	"fmt"
	"time"

	"github.com/forgechain/forge/foundation/blockchain/ledger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type chainResponse struct {
	Chain  []ledger.Block `json:"chain"`
	Length int            `json:"length"`
}

// chainCmd represents the chain command
var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Show the node's full chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp chainResponse
		if err := getJSON("/chain", &resp); err != nil {
			return err
		}

		tableData := pterm.TableData{
			{"Index", "Forged", "Proof", "Txs", "Previous Hash"},
		}
		for _, block := range resp.Chain {
			forged := time.Unix(int64(block.Timestamp), 0).UTC().Format(time.RFC3339)
			tableData = append(tableData, []string{
				fmt.Sprintf("%d", block.Index),
				forged,
				fmt.Sprintf("%d", block.Proof),
				fmt.Sprintf("%d", len(block.Transactions)),
				shortHash(block.PreviousHash),
			})
		}

		if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
			return err
		}
		pterm.Info.Printfln("chain length: %d", resp.Length)

		return nil
	},
}

func shortHash(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:16]
}

func init() {
	rootCmd.AddCommand(chainCmd)
}
