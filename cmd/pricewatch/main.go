// Package main is the entry point for pricewatch.
package main

import (
	"os"

	"pricewatch/cmd/pricewatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
