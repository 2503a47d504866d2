package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/loxide/lang/ast"
	"github.com/mna/loxide/lang/diag"
	"github.com/mna/loxide/lang/parser"
	"github.com/mna/loxide/lang/resolver"
)

// Resolve is the "resolve" debug subcommand: it parses and resolves each
// file, printing the AST annotated with each reference's scope distance.
func (c *Cmd) Resolve(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var failed bool
	for _, path := range args {
		if err := resolveFile(stdio, path); err != nil {
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("resolve: one or more files failed")
	}
	return nil
}

func resolveFile(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	prog, sm, perr := parser.Parse(path, src)
	if perr != nil {
		if el, ok := perr.(*diag.ErrorList); ok {
			diag.PrintAll(stdio.Stderr, el, sm, true)
		} else {
			fmt.Fprintln(stdio.Stderr, perr)
		}
		return perr
	}

	var errs diag.ErrorList
	locals := resolver.New(&errs).Resolve(prog)

	printer := ast.Printer{Output: stdio.Stdout, Distances: locals}
	if err := printer.Print(prog); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	if rerr := errs.Err(); rerr != nil {
		diag.PrintAll(stdio.Stderr, &errs, sm, true)
		return rerr
	}
	return nil
}
