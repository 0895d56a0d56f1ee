package main

import (
	"fmt"
	"os"

	"github.com/pthm/hxstore/lib/generator"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "generate":
		err = runGenerate(args)
	case "clean":
		err = runClean(args)
	case "validate":
		err = runValidate(args)
	case "version":
		fmt.Printf("hxstore version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hxstore - declarative state components for HTMX

Usage:
  hxstore <command> [arguments]

Commands:
  generate [packages]   Generate typed action keys from *.hxstore.yaml definitions
  clean [packages]      Remove generated files (*_hxs.go)
  validate [packages]   Load and validate definitions without writing files
  version               Print version
  help                  Show this help

Options for generate and clean:
  --dry-run             Show what would be written or removed

Examples:
  hxstore generate ./...                 Generate for all packages
  hxstore generate ./components/counter  Generate for one package
  hxstore validate ./...                 Check every definition
  hxstore clean ./...                    Remove all generated files`)
}

// parseArgs splits --dry-run from package patterns, defaulting to ./...
func parseArgs(args []string) (dryRun bool, patterns []string) {
	for _, arg := range args {
		if arg == "--dry-run" {
			dryRun = true
		} else {
			patterns = append(patterns, arg)
		}
	}
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	return dryRun, patterns
}

func runGenerate(args []string) error {
	dryRun, patterns := parseArgs(args)
	return generator.New(generator.Options{DryRun: dryRun}).Generate(patterns...)
}

func runClean(args []string) error {
	dryRun, patterns := parseArgs(args)
	return generator.New(generator.Options{DryRun: dryRun}).Clean(patterns...)
}

func runValidate(args []string) error {
	_, patterns := parseArgs(args)
	return generator.New(generator.Options{}).Validate(patterns...)
}
