package main

import (
	"fmt"
	"os"

	"github.com/parthshr370/IntHR/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present. Missing file is fine.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
