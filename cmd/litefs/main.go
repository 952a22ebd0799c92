// Command litefs is the CLI collaborator §6 describes: it parses
// arguments, loads or initializes a config file, derives the master key
// from a password, and constructs the façade above a host filesystem. The
// FUSE host binding itself is out of scope (§1's Non-goals) — mount wires
// the façade to an in-memory host as a stand-in for wherever the real
// binding would attach.
package main

import "github.com/absfs/litefs/cmd/litefs/internal/cli"

func main() {
	cli.Execute()
}
