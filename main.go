package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mywio/odyssey-build/pkg/cli"
)

// Stages the front-end for deployment. Any error ends the process with a
// non-zero status after a single ERROR line on stderr.
func main() {
	if err := cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}
