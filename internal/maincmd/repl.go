package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/mna/mainer"
	"github.com/mna/loxide/internal/config"
	"github.com/mna/loxide/lang/diag"
	"github.com/mna/loxide/lang/interpreter"
	"github.com/mna/loxide/lang/parser"
	"github.com/mna/loxide/lang/resolver"
	"github.com/mna/loxide/lang/token"
)

// RunREPL reads lines from stdio.Stdin and evaluates each one against a
// single interpreter whose global environment persists across lines, so a
// binding made on one line is visible on the next. Per the external
// interface contract, a single line's failure never ends the session: only
// its diagnostic/had-error state is reset before the next line runs.
func RunREPL(ctx context.Context, stdio mainer.Stdio, logger log.Logger, colorize bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.NoColor {
		colorize = false
	}

	sessionID := uuid.NewString()
	logger = log.With(logger, "session", sessionID)
	level.Debug(logger).Log("msg", "repl session starting")

	in := interpreter.NewInterpreter(stdio.Stdout)
	stats := &replStats{started: time.Now()}

	scanner := bufio.NewScanner(stdio.Stdin)
	for {
		fmt.Fprint(stdio.Stdout, cfg.Prompt)
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}

		line := scanner.Text()
		switch line {
		case "":
			continue
		case ":stats":
			printStats(stdio.Stdout, stats)
			continue
		}

		runREPLLine(stdio, logger, in, stats, line, colorize)
	}

	level.Debug(logger).Log("msg", "repl session ending", "statements", stats.statements)
	return scanner.Err()
}

// replStats backs the ":stats" meta-command: a running count of executed
// statements and the session's start time.
type replStats struct {
	started    time.Time
	statements int
}

func printStats(w io.Writer, stats *replStats) {
	fmt.Fprintf(w, "%s statements executed, session started %s\n",
		humanize.Comma(int64(stats.statements)), humanize.Time(stats.started))
}

func runREPLLine(stdio mainer.Stdio, logger log.Logger, in *interpreter.Interpreter, stats *replStats, line string, colorize bool) {
	prog, sm, perr := parser.Parse("<repl>", []byte(line))
	if perr != nil {
		if el, ok := perr.(*diag.ErrorList); ok {
			diag.PrintAll(stdio.Stderr, el, sm, colorize)
		} else {
			fmt.Fprintln(stdio.Stderr, perr)
		}
		return
	}

	var errs diag.ErrorList
	locals := resolver.New(&errs).Resolve(prog)
	if err := errs.Err(); err != nil {
		diag.PrintAll(stdio.Stderr, &errs, sm, colorize)
		return
	}

	if err := in.Run(prog, locals); err != nil {
		var rerrs diag.ErrorList
		span := token.Span{}
		if re, ok := err.(*interpreter.RuntimeError); ok {
			span = re.Span
		}
		rerrs.Add(diag.Runtime, span, "%s", err)
		diag.PrintAll(stdio.Stderr, &rerrs, sm, colorize)
		level.Debug(logger).Log("msg", "repl line failed", "err", err)
		return
	}

	stats.statements += len(prog.Stmts)
}
