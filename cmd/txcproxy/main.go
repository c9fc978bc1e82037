package main

import (
	"os"

	"github.com/tradewire-labs/txconn/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
