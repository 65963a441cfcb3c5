// This program performs administrative tasks against ledger nodes.
package main

import "github.com/ardanlabs/ledger/app/tooling/admin/commands"

func main() {
	commands.Execute()
}
