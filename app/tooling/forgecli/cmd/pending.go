package cmd

import (
	"fmt"

	"github.com/forgechain/forge/foundation/blockchain/ledger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type pendingResponse struct {
	Transactions []ledger.Tx `json:"transactions"`
	Count        int         `json:"count"`
}

// pendingCmd represents the pending command
var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Show the transactions waiting for the next block",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp pendingResponse
		if err := getJSON("/transactions/pending", &resp); err != nil {
			return err
		}

		if resp.Count == 0 {
			pterm.Info.Println("the pool is empty")
			return nil
		}

		tableData := pterm.TableData{
			{"Sender", "Recipient", "Amount"},
		}
		for _, tx := range resp.Transactions {
			tableData = append(tableData, []string{
				tx.Sender,
				tx.Recipient,
				fmt.Sprintf("%d", tx.Amount),
			})
		}

		if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
			return err
		}
		pterm.Info.Printfln("%d transaction(s) pending", resp.Count)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(pendingCmd)
}
