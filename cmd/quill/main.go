// Command quill is a terminal client for the Quill blogging platform:
// it lists, searches, browses, and reads posts from a Quill backend.
package main

import (
	"fmt"
	"os"

	"github.com/quillhq/quill/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return cli.NewRootCmd(version).Execute()
}
