package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/pijama-lang/pijama/internal/config"
	"github.com/pijama-lang/pijama/internal/pipeline"
)

const usage = `pijama - a small functional language

Usage:
  pijama run <file.pj>
  pijama <file.pj>

A pijama.yaml next to the source file configures the run.`

func main() {
	args := os.Args[1:]
	if len(args) >= 1 && args[0] == "run" {
		args = args[1:]
	}
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pijama: %v\n", err)
		os.Exit(2)
	}

	opts, err := config.Load(filepath.Join(filepath.Dir(path), config.ConfigFileName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "pijama: %v\n", err)
		os.Exit(2)
	}

	ctx := pipeline.NewContext(string(source), opts)
	ctx.File = path
	ctx = pipeline.Default().Run(ctx)

	os.Stdout.Write(ctx.Output.Bytes())

	if ctx.Err != nil {
		reportError(ctx.Err.Error(), opts)
		os.Exit(1)
	}
}

func reportError(message string, opts config.Options) {
	color := opts.Color == "always"
	if opts.Color == "auto" || opts.Color == "" {
		color = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
	if color {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", message)
		return
	}
	fmt.Fprintln(os.Stderr, message)
}
