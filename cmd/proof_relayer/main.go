package main

import "github.com/blockvault/storage-proof-relayer/cmd/proof_relayer/cmd"

func main() {
	cmd.Execute()
}
