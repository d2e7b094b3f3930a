// Package main is the entry point for the nekotrayd daemon.
package main

import (
	"os"

	"github.com/nekotray/nekotray/internal/daemon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
