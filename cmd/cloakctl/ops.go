package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cloakproject/cloak/internal/transform"
)

func runOps(args []string) int {
	fs := flag.NewFlagSet("ops", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "ops takes no arguments")
		return 2
	}

	for _, op := range transform.List() {
		reversible := " "
		if _, ok := op.Reverse(); ok {
			reversible = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %-16s %-8s %s\n", reversible, op.Name(), op.Type(), op.Description())
	}
	fmt.Fprintln(os.Stdout, "\n* reversible")
	return 0
}
