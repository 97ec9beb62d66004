package main

import (
	"os"

	"github.com/solatis/stepgrammar/cmd/stepgrammar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
