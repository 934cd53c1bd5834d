package main

import (
	"fmt"
	"log"
	"os"

	"github.com/blackwell-systems/watchmux/internal/app"
)

func main() {
	// Diagnostics share stderr with nothing else; keep them unadorned.
	log.SetFlags(0)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
