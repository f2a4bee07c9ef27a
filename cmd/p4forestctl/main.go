// Command p4forestctl is a small demonstration CLI over the p4forest
// library: build a brick forest from a config file and validate, checksum,
// or redistribute it.
package main

import "github.com/katalvlaran/p4forest/cmd/p4forestctl/cmd"

func main() {
	cmd.Execute()
}
