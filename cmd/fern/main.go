package main

import (
	"os"

	"github.com/go-fern/fern/cmd/fern/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
