package main

import (
	"os"

	"lppanel/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
