// Command quantkit extracts quantities from text on the command line.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A local .env may carry QUANTKIT_* settings; absence is fine.
	_ = godotenv.Load()

	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
