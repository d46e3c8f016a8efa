// Package main is the entry point for the career coach gateway.
package main

import (
	"fmt"
	"os"

	"github.com/WaghmarePravinn/ai-career-coach/cmd/careercoach/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
