// Command noumenon is a thin demo binary over src/system/core — it is
// not part of the library's contract, just a way to exercise it. It
// loads .env tunable overrides and runs one conversation-id instance to
// completion.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env overrides are best-effort; a missing file is not an error.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
