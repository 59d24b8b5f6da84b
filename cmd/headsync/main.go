package main

import (
	"github.com/tacogips/headsync/internal/cli"
)

func main() {
	// Execute the root command
	cli.Execute()
}
