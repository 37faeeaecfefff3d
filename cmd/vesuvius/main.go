package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lhaig/vesuvius/internal/ast"
	"github.com/lhaig/vesuvius/internal/compiler"
	"github.com/lhaig/vesuvius/internal/config"
	"github.com/lhaig/vesuvius/internal/diagnostic"
	"github.com/lhaig/vesuvius/internal/formatter"
	"github.com/lhaig/vesuvius/internal/verify"
)

const version = "0.1.0"

const usage = `vesuvius - static checker for the Vesuvius language

Usage:
  vesuvius check [options] <file.vsv>    Parse and verify a program
  vesuvius lint <file.vsv>               Run lint checks for style/best practices
  vesuvius fmt [-w] <file.vsv>           Print canonically formatted source (or rewrite with -w)
  vesuvius ast <file.vsv>                Print the syntax tree
  vesuvius explain <code>                Describe a note code such as E0003
  vesuvius version                       Print the version

Options:
  --config <file>    Use this project file instead of vesuvius.yaml next to the input
  --report           Print the branch reachability report
  --verbose          Print pipeline stage timings to stderr

Modules:
  A "mod a::b;" declaration loads a/b.vsv relative to the entry file. Every
  module is checked; cycles are reported as errors.

Examples:
  vesuvius check main.vsv                Check main.vsv and its modules
  vesuvius check --report main.vsv       Also show which branches can run
  vesuvius explain W0001                 Explain the "block contents" note
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "check":
		handleCheck(os.Args[2:])
	case "lint":
		handleLint(os.Args[2:])
	case "fmt":
		handleFmt(os.Args[2:])
	case "ast":
		handleAST(os.Args[2:])
	case "explain":
		handleExplain(os.Args[2:])
	case "version", "--version":
		fmt.Printf("vesuvius %s\n", version)
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

type checkOptions struct {
	configPath string
	report     bool
	verbose    bool
	filePath   string
}

func parseCheckArgs(args []string) checkOptions {
	var opts checkOptions
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--report":
			opts.report = true
		case "--verbose", "-v":
			opts.verbose = true
		case "--config":
			if i+1 >= len(args) {
				fail("Error: --config needs a file")
			}
			i++
			opts.configPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				fail("Unknown option: %s", arg)
			}
			opts.filePath = arg
		}
	}
	if opts.filePath == "" {
		fail("Error: no input file specified")
	}
	return opts
}

func handleCheck(args []string) {
	opts := parseCheckArgs(args)
	if code := runCheck(opts, os.Stdout, os.Stderr); code != 0 {
		os.Exit(code)
	}
}

// runCheck checks opts.filePath and returns the process exit code. Notes and
// the summary line go to stderr, the branch report to stdout.
func runCheck(opts checkOptions, stdout, stderr io.Writer) int {
	cfg, err := config.ForInput(opts.filePath, opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}

	res, err := compiler.CheckProject(opts.filePath, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}

	if opts.verbose {
		for _, s := range res.Stages {
			fmt.Fprintf(stderr, "%-32s %s\n", s.Name, s.Duration)
		}
	}

	diagnostic.NewRenderer(stderr, res.Sources, cfg.ColorMode()).Render(res.Notes)

	if opts.report && !res.Notes.HasErrors() {
		fmt.Fprint(stdout, verify.FormatReport(res.Branches(), res.Sources))
	}

	if res.Notes.HasErrors() {
		return 1
	}
	return 0
}

func handleLint(args []string) {
	filePath := singleFile(args)

	src, err := os.ReadFile(filePath)
	if err != nil {
		fail("Error reading file: %s", err)
	}

	res := compiler.Lint(filePath, string(src))
	r := diagnostic.NewRenderer(os.Stderr, res.Sources, diagnostic.ColorAuto)
	r.Render(res.Notes)

	if res.Notes.HasErrors() {
		os.Exit(1)
	}
	if res.Notes.Count() == 0 {
		fmt.Println("No lint warnings.")
		return
	}
	fmt.Printf("%d warning(s) found.\n", res.Notes.Count())
}

func handleAST(args []string) {
	filePath := singleFile(args)

	src, err := os.ReadFile(filePath)
	if err != nil {
		fail("Error reading file: %s", err)
	}

	res := compiler.Parse(filePath, string(src))
	if res.Notes.HasErrors() {
		diagnostic.NewRenderer(os.Stderr, res.Sources, diagnostic.ColorAuto).Render(res.Notes)
		os.Exit(1)
	}
	fmt.Print(ast.Print(res.Entry().Program))
}

func handleFmt(args []string) {
	write := false
	var filePath string
	for _, arg := range args {
		switch arg {
		case "-w", "--write":
			write = true
		default:
			if strings.HasPrefix(arg, "-") {
				fail("Unknown option: %s", arg)
			}
			filePath = arg
		}
	}
	filePath = singleFile([]string{filePath})

	src, err := os.ReadFile(filePath)
	if err != nil {
		fail("Error reading file: %s", err)
	}

	res := compiler.Parse(filePath, string(src))
	if res.Notes.HasErrors() {
		diagnostic.NewRenderer(os.Stderr, res.Sources, diagnostic.ColorAuto).Render(res.Notes)
		os.Exit(1)
	}

	out := formatter.Format(res.Entry().Program)
	if !write {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(filePath, []byte(out), 0644); err != nil {
		fail("Error writing file: %s", err)
	}
}

func handleExplain(args []string) {
	if len(args) != 1 {
		fail("Error: explain takes one code, one of %s", strings.Join(diagnostic.Codes(), ", "))
	}
	text, err := diagnostic.Explain(args[0])
	if err != nil {
		fail("Error: %s", err)
	}
	fmt.Println(text)
}

func singleFile(args []string) string {
	if len(args) == 0 || args[0] == "" {
		fail("Error: no input file specified")
	}
	return args[0]
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
