package main

import (
	"os"

	"github.com/diario-app/diario/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
