package main

import (
	"os"

	"summit-abstract-miner/cmd/scraper/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
