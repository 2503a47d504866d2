package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mna/mainer"
	"github.com/mna/loxide/lang/diag"
	"github.com/mna/loxide/lang/interpreter"
	"github.com/mna/loxide/lang/parser"
	"github.com/mna/loxide/lang/resolver"
	"github.com/mna/loxide/lang/token"
)

// RunFile reads path, runs it through the full pipeline and executes it,
// returning the exit code the language's external interface contract
// mandates: 65 for a static (lex/parse/resolve) error, 70 for a runtime
// error, 0 on success.
func RunFile(ctx context.Context, stdio mainer.Stdio, logger log.Logger, path string, colorize bool) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.Failure
	}

	level.Debug(logger).Log("phase", "parse", "file", path, "msg", "starting")
	prog, sm, perr := parser.Parse(path, src)
	if perr != nil {
		if el, ok := perr.(*diag.ErrorList); ok {
			diag.PrintAll(stdio.Stderr, el, sm, colorize)
		} else {
			fmt.Fprintln(stdio.Stderr, perr)
		}
		return exitStatic
	}
	level.Debug(logger).Log("phase", "parse", "file", path, "msg", "done")

	level.Debug(logger).Log("phase", "resolve", "file", path, "msg", "starting")
	var errs diag.ErrorList
	locals := resolver.New(&errs).Resolve(prog)
	if err := errs.Err(); err != nil {
		diag.PrintAll(stdio.Stderr, &errs, sm, colorize)
		return exitStatic
	}
	level.Debug(logger).Log("phase", "resolve", "file", path, "msg", "done")

	level.Debug(logger).Log("phase", "interpret", "file", path, "msg", "starting")
	in := interpreter.NewInterpreter(stdio.Stdout)
	if err := in.Run(prog, locals); err != nil {
		var rerrs diag.ErrorList
		span := token.Span{}
		if re, ok := err.(*interpreter.RuntimeError); ok {
			span = re.Span
		}
		rerrs.Add(diag.Runtime, span, "%s", err)
		diag.PrintAll(stdio.Stderr, &rerrs, sm, colorize)
		return exitRuntime
	}
	level.Debug(logger).Log("phase", "interpret", "file", path, "msg", "done")

	return mainer.Success
}
