// Command pyfront tokenizes, parses and checks Python-syntax source.
package main

import (
	"os"

	"github.com/hassan/pyfront/cmd/pyfront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
