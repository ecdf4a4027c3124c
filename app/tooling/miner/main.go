// This program provides a one shot mining run from the command line. It
// searches for a nonce for a single block template and saves the result to
// disk, without running the node service.
package main

import (
	"github.com/ardanlabs/minesim/app/tooling/miner/cmd"
)

func main() {
	cmd.Execute()
}
