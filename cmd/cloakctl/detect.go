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

func runDetect(args []string) int {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	inFlag := fs.String("in", "", "input text, or a path to a UTF-8 text file")
	decode := fs.Bool("decode", false, "apply the detected operations and print the results")
	jsonOut := fs.Bool("json", false, "emit detection results as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "detect takes no positional arguments; use --in")
		return 2
	}

	input, _, err := iotext.ResolveInput(*inFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		return 1
	}

	logger := auditLogger()
	defer logger.Close()

	ctx := context.Background()

	if *decode {
		attempts, err := transform.DecodeAll(ctx, []byte(input))
		if err != nil {
			fmt.Fprintf(os.Stderr, "detect failed: %v\n", err)
			return 1
		}
		if len(attempts) == 0 {
			fmt.Fprintln(os.Stderr, "no known encoding detected")
			return 1
		}
		_ = logger.Emit(logging.AuditEvent{
			EventType: logging.EventDetectionRun,
			Decision:  logging.DecisionAllow,
			Metadata:  map[string]any{"candidates": len(attempts)},
		})
		if *jsonOut {
			return printJSON(attempts)
		}
		for _, attempt := range attempts {
			fmt.Fprintf(os.Stdout, "%s (%.0f%%): %s\n",
				attempt.Detection.Encoding,
				attempt.Detection.Confidence*100,
				string(attempt.Decoded))
		}
		return 0
	}

	detector := transform.NewSmartDetector()
	detections, err := detector.Detect(ctx, []byte(input))
	if err != nil {
		fmt.Fprintf(os.Stderr, "detect failed: %v\n", err)
		return 1
	}
	if len(detections) == 0 {
		fmt.Fprintln(os.Stderr, "no known encoding detected")
		return 1
	}
	_ = logger.Emit(logging.AuditEvent{
		EventType: logging.EventDetectionRun,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"candidates": len(detections)},
	})
	if *jsonOut {
		return printJSON(detections)
	}
	for _, d := range detections {
		fmt.Fprintf(os.Stdout, "%s (%.0f%%): %s\n", d.Encoding, d.Confidence*100, d.Reasoning)
	}
	return 0
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
		return 1
	}
	return 0
}
