package main

import (
	"os"

	"github.com/stratacss/strata/pkg/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
