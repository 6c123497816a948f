// This program provides a command line client for the node's public API.
package main

import (
	"github.com/forgechain/forge/app/tooling/forgecli/cmd"
)

func main() {
	cmd.Execute()
}
