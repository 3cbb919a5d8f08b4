package main

import (
	"os"

	"github.com/Neev4n/rawsh/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
