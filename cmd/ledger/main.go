// Command ledger is a single-user inventory ledger.
package main

import "github.com/mesh-intelligence/ledger/internal/cli"

func main() {
	cli.Execute()
}
