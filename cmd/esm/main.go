package main

import (
	"os"

	"github.com/xgx-io/esm/cmd/esm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
