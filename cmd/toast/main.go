package main

import (
	"os"

	"github.com/idilsaglam/toast/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
