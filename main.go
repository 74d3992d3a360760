// Command sudoku-reader processes a photographed sudoku puzzle and
// prints the recognition and solving result as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"sudoku-reader/internal/pipeline"
)

func main() {
	imagePath := flag.String("image", "", "Path to puzzle image (PNG, JPEG, or TIFF)")
	verbose := flag.Bool("v", false, "Log pipeline stages to stderr")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: sudoku-reader -image <path> [-v]")
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	processor, err := pipeline.NewProcessor(pipeline.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize pipeline: %v\n", err)
		os.Exit(1)
	}
	defer processor.Close()

	result, err := processor.ProcessFile(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
