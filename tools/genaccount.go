package main

import (
	"fmt"
	"os"

	"github.com/stellar/go/keypair"
)

// Generates a fresh ed25519 account for use as admin, treasury or creator.
// The seed signs request bodies when the API runs in signature mode.
func main() {
	kp, err := keypair.Random()
	if err != nil {
		fmt.Printf("Error generating keypair: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Address: %s\n", kp.Address())
	fmt.Printf("Seed:    %s\n", kp.Seed())
}
