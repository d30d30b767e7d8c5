package main

import (
	"os"

	"github.com/tablewise/tablewise/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
