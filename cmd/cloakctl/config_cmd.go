package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cloakproject/cloak/internal/config"
)

func runConfig(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "config subcommand required")
		return 2
	}

	switch args[0] {
	case "print":
		return runConfigPrint()
	default:
		fmt.Fprintf(os.Stderr, "unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runConfigPrint() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	printResolvedConfig(os.Stdout, cfg)
	return 0
}

func printResolvedConfig(out io.Writer, cfg config.Config) {
	fmt.Fprintf(out, "api_addr: %s\n", cfg.APIAddr)
	fmt.Fprintf(out, "auth_token: %s\n", cfg.AuthToken)
	fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
	fmt.Fprintf(out, "recipes_dir: %s\n", cfg.RecipesDir)
	fmt.Fprintf(out, "default_shift: %d\n", cfg.DefaultShift)
}
