package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/go-mesh/meshkit/cmd/meshctl/cmd"
)

func main() {
	// Load .env if present (silent fail if not found).
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
