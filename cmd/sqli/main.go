// Command sqli compiles SQL templates and renders queries with filter trees.
package main

import (
	"fmt"
	"os"

	"github.com/mitranim/sqli/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
