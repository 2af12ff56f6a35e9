package main

import (
	"os"

	"summit-abstract-miner/cmd/statuscheck/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
