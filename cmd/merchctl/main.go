package main

import (
	"fmt"
	"os"

	"merch-nexus/internal/cli"
)

func main() {
	if err := cli.RootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "merchctl:", err)
		os.Exit(1)
	}
}
