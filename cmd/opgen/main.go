// Command opgen turns an opcode-map document into Go lookup tables.
package main

import (
	"os"

	"github.com/dgallion1/opgen/internal/cmd"
)

func main() {
	if err := cmd.NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
