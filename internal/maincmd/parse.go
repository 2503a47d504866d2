package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/loxide/lang/ast"
	"github.com/mna/loxide/lang/diag"
	"github.com/mna/loxide/lang/parser"
)

// Parse is the "parse" debug subcommand: it parses each file and prints its
// AST as an indented tree.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var failed bool
	for _, path := range args {
		if err := parseFile(stdio, path); err != nil {
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("parse: one or more files failed")
	}
	return nil
}

func parseFile(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	prog, sm, perr := parser.Parse(path, src)
	printer := ast.Printer{Output: stdio.Stdout}
	if err := printer.Print(prog); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	if perr != nil {
		if el, ok := perr.(*diag.ErrorList); ok {
			diag.PrintAll(stdio.Stderr, el, sm, true)
		} else {
			fmt.Fprintln(stdio.Stderr, perr)
		}
		return perr
	}
	return nil
}
