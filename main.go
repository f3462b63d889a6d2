package main

import (
	"os"

	"github.com/gitscout/gitscout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
