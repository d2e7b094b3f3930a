// Package main is the entry point for the nekotray CLI.
package main

import (
	"os"

	"github.com/nekotray/nekotray/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
