package main

import (
	"os"

	"github.com/romainsacchi/carculator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
