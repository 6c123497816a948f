package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	sendFrom   string
	sendTo     string
	sendAmount int64
)

type sendResponse struct {
	Message string `json:"message"`
}

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the pending pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := struct {
			Sender    string `json:"sender"`
			Recipient string `json:"recipient"`
			Amount    int64  `json:"amount"`
		}{
			Sender:    sendFrom,
			Recipient: sendTo,
			Amount:    sendAmount,
		}

		var resp sendResponse
		if err := postJSON("/transactions/new", body, &resp); err != nil {
			return err
		}

		pterm.Success.Println(resp.Message)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sendFrom, "from", "f", "", "Sender of the transaction.")
	sendCmd.Flags().StringVarP(&sendTo, "to", "t", "", "Recipient of the transaction.")
	sendCmd.Flags().Int64VarP(&sendAmount, "amount", "v", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("from")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}
