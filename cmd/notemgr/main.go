package main

import (
	"os"

	"github.com/notemgr/notemgr/internal/console"
)

// version is set via ldflags during build
var version = "dev"

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		console.NewPrinter(os.Stderr).Errorf("%v", err)
		os.Exit(1)
	}
}
