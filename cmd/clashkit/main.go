package main

import (
	"os"

	"github.com/clashkit/clashkit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
