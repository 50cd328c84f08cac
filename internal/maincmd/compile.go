package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/mindlang/lang/compiler"
	"github.com/mna/mindlang/lang/parser"
	"github.com/mna/mindlang/lang/scanner"
)

// Compile runs the full parse-and-compile pipeline over each file and
// prints the resulting MLOG program, one instruction per line.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	lim, err := c.loadLimits()
	if err != nil {
		return printError(stdio, err)
	}
	return CompileFiles(ctx, stdio, lim.RecursionLimit, args...)
}

// CompileFiles parses and compiles each file in turn, printing its
// assembled MLOG lines to stdout.
func CompileFiles(ctx context.Context, stdio mainer.Stdio, recursionLimit int, files ...string) error {
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
			return printError(stdio, fmt.Errorf("%s: %w", name, err))
		}
		for _, line := range meta.TagCodes().Compile() {
			fmt.Fprintln(stdio.Stdout, line)
		}
	}
	return nil
}
