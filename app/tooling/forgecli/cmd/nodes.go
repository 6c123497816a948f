package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type nodesResponse struct {
	Nodes []string `json:"nodes"`
	Count int      `json:"count"`
}

// nodesCmd represents the nodes command
var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Show the hosts the node knows about",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp nodesResponse
		if err := getJSON("/nodes", &resp); err != nil {
			return err
		}

		if resp.Count == 0 {
			pterm.Info.Println("the node knows no other hosts")
			return nil
		}

		for _, host := range resp.Nodes {
			pterm.Info.Println(host)
		}
		pterm.Info.Printfln("%d host(s) known", resp.Count)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(nodesCmd)
}
