// Command langrun lexes, parses, and evaluates a source file (spec.md
// §6). Subcommands let a caller inspect each pipeline stage: "tokens"
// and "ast" print intermediate forms, "run" (the default) evaluates.
package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/codeassociates/langcore/ast"
	"github.com/codeassociates/langcore/interp"
	"github.com/codeassociates/langcore/lexer"
	"github.com/codeassociates/langcore/parser"
)

const version = "0.1.0"

func main() {
	// Dispatch on the subcommand in os.Args[1], the same shape as the
	// teacher's gen-module dispatch; no flag package parsing follows.
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "tokens":
			tokensCmd(os.Args[2:])
			return
		case "ast":
			astCmd(os.Args[2:])
			return
		case "run":
			runCmd(os.Args[2:])
			return
		case "-version", "--version":
			fmt.Printf("langrun version %s\n", version)
			return
		}
	}
	runCmd(os.Args[1:])
}

func usage() {
	fmt.Fprintf(os.Stderr, "langrun - a tree-walking interpreter\n\n")
	fmt.Fprintf(os.Stderr, "Usage: langrun [tokens|ast|run] <path>\n")
}

func readSource(args []string) (string, string) {
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %s\n", path, err)
		os.Exit(1)
	}
	return string(data), path
}

func tokensCmd(args []string) {
	src, _ := readSource(args)
	toks, err := lexer.Tokenize(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
	for _, t := range toks {
		fmt.Printf("%-4d %-12s %q\n", t.Line, t.Type, t.Lexeme)
	}
}

func astCmd(args []string) {
	prog := parseOrExit(args)
	for _, stmt := range prog.Statements {
		fmt.Printf("%T @ %q\n", stmt, stmt.TokenLiteral())
	}
}

func runCmd(args []string) {
	prog := parseOrExit(args)

	var opts []interp.Option
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		// Interactive terminal: give Input a proper line-editing session
		// instead of raw canonical-mode reads (SPEC_FULL.md §3 DOMAIN
		// STACK).
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not enter raw terminal mode: %s\n", err)
			opts = append(opts, interp.WithStdin(os.Stdin))
		} else {
			defer term.Restore(fd, oldState)
			rw := struct {
				io.Reader
				io.Writer
			}{os.Stdin, os.Stdout}
			opts = append(opts, interp.WithLineReader(term.NewTerminal(rw, "")))
		}
	} else {
		// Not a TTY (piped input, redirected file): fall back to the
		// Interpreter's own buffered bufio.Scanner reader over stdin.
		opts = append(opts, interp.WithStdin(os.Stdin))
	}
	it := interp.New(opts...)

	if err := it.Run(prog); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func parseOrExit(args []string) *ast.Program {
	src, _ := readSource(args)

	toks, err := lexer.Tokenize(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	prog, errs := parser.ParseProgram(toks)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s\n", e)
		}
		os.Exit(1)
	}
	return prog
}
