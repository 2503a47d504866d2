package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/loxide/lang/diag"
	"github.com/mna/loxide/lang/scanner"
	"github.com/mna/loxide/lang/token"
)

// Tokenize is the "tokenize" debug subcommand: it scans each file and
// prints its tokens, one per line.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var failed bool
	for _, path := range args {
		if err := tokenizeFile(stdio, path); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("tokenize: one or more files failed")
	}
	return nil
}

func tokenizeFile(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	sm := token.NewSourceMap(path, src)
	var errs diag.ErrorList
	for _, tok := range scanner.ScanAll(src, &errs) {
		fmt.Fprintf(stdio.Stdout, "%s: %s %q\n", sm.Map(tok.Span), tok.Kind, tok.Lexeme)
	}
	if err := errs.Err(); err != nil {
		diag.PrintAll(stdio.Stderr, &errs, sm, true)
		return err
	}
	return nil
}
