// Command til is the front-end entry point for the Tydi Interchange
// Language: it loads a project manifest, evaluates every namespace it
// names, and reports the result. It contains no language semantics of its
// own; all of that lives in pkg/eval and the packages it depends on.
package main

import (
	"fmt"
	"os"

	"github.com/tydi-lang/tilc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
