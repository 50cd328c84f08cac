package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/mindlang/lang/compiler"
	"github.com/mna/mindlang/lang/importer"
	"github.com/mna/mindlang/lang/parser"
	"github.com/mna/mindlang/lang/printer"
	"github.com/mna/mindlang/lang/scanner"
)

// Print compiles each file, imports the compiled MLOG back into an AST
// with lang/importer, and prints that AST's canonical source form — a
// round trip through the full pipeline, useful for inspecting exactly
// what a compiled program's control flow and temporaries look like.
func (c *Cmd) Print(ctx context.Context, stdio mainer.Stdio, args []string) error {
	lim, err := c.loadLimits()
	if err != nil {
		return printError(stdio, err)
	}
	return PrintCompiled(ctx, stdio, lim.RecursionLimit, args...)
}

// PrintCompiled parses, compiles, re-imports, and pretty-prints each file
// in turn.
func PrintCompiled(ctx context.Context, stdio mainer.Stdio, recursionLimit int, files ...string) error {
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

		meta := compiler.NewCompileMetaWithLimit(recursionLimit)
		if err := compiler.CompileLogicLine(body, meta); err != nil {
			return printError(stdio, err)
		}

		imported, err := importer.FromTagCodes(meta.TagCodes())
		if err != nil {
			return printError(stdio, err)
		}
		if err := p.Print(imported); err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}
