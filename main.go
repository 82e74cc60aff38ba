package main

import (
	"os"

	"github.com/idilsaglam/toast/internal/cli"
)

// Same entry point as cmd/toast, so `go run .` works from the repo root.
func main() {
	os.Exit(cli.Execute())
}
