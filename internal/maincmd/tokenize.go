package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/mindlang/lang/scanner"
)

// Tokenize runs the scanner phase over each file and prints every token.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, args...)
}

// TokenizeFiles scans each file in turn, printing one line per token as
// "file:line:col: TOKEN [literal]".
func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}

		src, err := os.ReadFile(name)
		if err != nil {
			return printError(stdio, err)
		}

		file, toks, err := scanner.ScanSource(name, src)
		for _, tv := range toks {
			pos := file.Position(tv.Value.Pos)
			fmt.Fprintf(stdio.Stdout, "%s: %s", pos, tv.Token)
			if tv.Value.Raw != "" {
				fmt.Fprintf(stdio.Stdout, " %s", tv.Value.Raw)
			}
			fmt.Fprintln(stdio.Stdout)
		}
		if err != nil {
			scanner.PrintError(stdio.Stderr, err)
			return err
		}
	}
	return nil
}
