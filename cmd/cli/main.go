package main

import (
	"os"

	"github.com/briefhub-dev/briefhub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
