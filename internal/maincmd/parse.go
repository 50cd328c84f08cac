package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/mindlang/lang/parser"
	"github.com/mna/mindlang/lang/printer"
	"github.com/mna/mindlang/lang/scanner"
)

// Parse runs the parser phase over each file and prints the canonical
// source form of the resulting AST.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, args...)
}

// ParseFiles parses each file in turn and prints its canonical source
// rendering (§4.8), the form a round-trip through the parser reproduces
// an equal AST from.
func ParseFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	p := printer.Printer{Output: stdio.Stdout}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}

		src, err := os.ReadFile(name)
		if err != nil {
			return printError(stdio, err)
		}

		body, err := parser.ParseSource(name, src)
		if err != nil {
			scanner.PrintError(stdio.Stderr, err)
			return err
		}
		if err := p.Print(body); err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}
