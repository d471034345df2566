package main

import (
	"flag"
	"fmt"
	"os"
)

const productName = "cloak"
const cliBanner = productName + " CLI (cloakctl)"

func init() {
	defaultUsage := flag.Usage
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), cliBanner)
		fmt.Fprintln(flag.CommandLine.Output())
		if defaultUsage != nil {
			defaultUsage()
		}
	}
}

func main() {
	flag.Parse()
	if maybePrintVersion() {
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "encrypt":
		os.Exit(runEncrypt(args[1:]))
	case "decrypt":
		os.Exit(runDecrypt(args[1:]))
	case "detect":
		os.Exit(runDetect(args[1:]))
	case "pipeline":
		os.Exit(runPipeline(args[1:]))
	case "ops":
		os.Exit(runOps(args[1:]))
	case "examples":
		os.Exit(runExamples(args[1:]))
	case "recipe":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "recipe subcommand required")
			os.Exit(2)
		}
		switch args[1] {
		case "save":
			os.Exit(runRecipeSave(args[2:]))
		case "list":
			os.Exit(runRecipeList(args[2:]))
		case "show":
			os.Exit(runRecipeShow(args[2:]))
		case "delete":
			os.Exit(runRecipeDelete(args[2:]))
		default:
			fmt.Fprintf(os.Stderr, "unknown recipe subcommand: %s\n", args[1])
			os.Exit(2)
		}
	case "serve":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "serve subcommand required")
			os.Exit(2)
		}
		switch args[1] {
		case "api":
			os.Exit(runServeAPI(args[2:]))
		default:
			fmt.Fprintf(os.Stderr, "unknown serve subcommand: %s\n", args[1])
			os.Exit(2)
		}
	case "api-token":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "api-token subcommand required")
			os.Exit(2)
		}
		switch args[1] {
		case "new":
			os.Exit(runAPITokenNew(args[2:]))
		default:
			fmt.Fprintf(os.Stderr, "unknown api-token subcommand: %s\n", args[1])
			os.Exit(2)
		}
	case "config":
		os.Exit(runConfig(args[1:]))
	case "version":
		os.Exit(runVersion(args[1:]))
	case "self-update":
		os.Exit(runSelfUpdate(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		flag.Usage()
		os.Exit(2)
	}
}
