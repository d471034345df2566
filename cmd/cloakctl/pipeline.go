package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cloakproject/cloak/internal/iotext"
	"github.com/cloakproject/cloak/internal/logging"
	"github.com/cloakproject/cloak/internal/transform"
)

func runPipeline(args []string) int {
	fs := flag.NewFlagSet("pipeline", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	inFlag := fs.String("in", "", "input text, or a path to a UTF-8 text file")
	specFlag := fs.String("spec", "", "pipeline spec as JSON, or a path to a JSON file")
	reverse := fs.Bool("reverse", false, "run the inverse pipeline")
	outFlag := fs.String("out", "", "write the result to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *specFlag == "" {
		fmt.Fprintln(os.Stderr, "--spec flag is required")
		return 2
	}

	specText, _, err := iotext.ResolveInput(*specFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read pipeline spec: %v\n", err)
		return 1
	}

	var pipeline transform.Pipeline
	if err := json.Unmarshal([]byte(specText), &pipeline); err != nil {
		fmt.Fprintf(os.Stderr, "parse pipeline spec: %v\n", err)
		return 2
	}
	if len(pipeline.Operations) == 0 {
		fmt.Fprintln(os.Stderr, "pipeline spec has no operations")
		return 2
	}

	if *reverse {
		pipeline.Reversible = true
		reversed, err := pipeline.Reverse()
		if err != nil {
			fmt.Fprintf(os.Stderr, "reverse pipeline: %v\n", err)
			return 1
		}
		pipeline = *reversed
	}

	input, _, err := iotext.ResolveInput(*inFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		return 1
	}

	logger := auditLogger()
	defer logger.Close()

	result, err := pipeline.Execute(context.Background(), []byte(input))
	if err != nil {
		_ = logger.Emit(logging.AuditEvent{
			EventType: logging.EventTransformFailed,
			Decision:  logging.DecisionDeny,
			Reason:    err.Error(),
		})
		fmt.Fprintf(os.Stderr, "pipeline failed: %v\n", err)
		return 1
	}
	_ = logger.Emit(logging.AuditEvent{
		EventType: logging.EventPipelineRun,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"steps": len(pipeline.Operations)},
	})

	if *outFlag != "" {
		if err := iotext.WriteTextFile(*outFlag, string(result)); err != nil {
			fmt.Fprintf(os.Stderr, "write output: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", *outFlag)
		return 0
	}
	fmt.Fprintln(os.Stdout, string(result))
	return 0
}
