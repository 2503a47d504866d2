// Package maincmd wires the command-line entry point: flag parsing, the
// run/REPL dispatch the spec names, and the three tokenize/parse/resolve
// debug subcommands for inspecting the pipeline.
package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mna/mainer"
)

const binName = "loxide"

// Exit codes mandated by the language's external interface contract. They
// are pinned to their sysexits-style values regardless of whatever values
// mainer.Success/Failure/InvalidArgs happen to use internally for its own
// flag-parsing errors.
const (
	exitUsage   mainer.ExitCode = 64
	exitStatic  mainer.ExitCode = 65
	exitRuntime mainer.ExitCode = 70
)

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<script>]
       %[1]s [<option>...] tokenize|parse|resolve <path>...
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<script>]
       %[1]s [<option>...] tokenize|parse|resolve <path>...
       %[1]s -h|--help
       %[1]s -v|--version

Tree-walking interpreter for the %[1]s scripting language.

With no <script>, starts a REPL reading from standard input. With exactly
one <script>, reads and executes that file. Giving more than one bare
argument is a usage error.

The debug <command>s inspect one phase of the pipeline without running the
program:
       tokenize <path>...        Print the tokens scanned from each file.
       parse <path>...           Print the parsed AST for each file.
       resolve <path>...         Print the AST with resolver distances.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --verbose                 Log phase transitions to standard error.
       --no-color                Disable ANSI color in diagnostics.
`, binName)
)

var debugSubcommands = map[string]bool{"tokenize": true, "parse": true, "resolve": true}

type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`
	Verbose bool `flag:"verbose"`
	NoColor bool `flag:"no-color"`

	args []string
}

func (c *Cmd) SetArgs(args []string)      { c.args = args }
func (c *Cmd) SetFlags(_ map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 0 && debugSubcommands[c.args[0]] && len(c.args[1:]) == 0 {
		return fmt.Errorf("%s: at least one file must be provided", c.args[0])
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: strings.ToUpper(binName) + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	logger := newLogger(stdio.Stderr, c.Verbose)

	switch {
	case len(c.args) > 0 && debugSubcommands[c.args[0]]:
		cmdFn := buildCmds(c)[c.args[0]]
		if err := cmdFn(ctx, stdio, c.args[1:]); err != nil {
			return mainer.Failure
		}
		return mainer.Success

	case len(c.args) == 0:
		if err := RunREPL(ctx, stdio, logger, !c.NoColor); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return mainer.Failure
		}
		return mainer.Success

	case len(c.args) == 1:
		return RunFile(ctx, stdio, logger, c.args[0], !c.NoColor)

	default:
		fmt.Fprint(stdio.Stdout, shortUsage)
		return exitUsage
	}
}

func newLogger(w io.Writer, verbose bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	if verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	return log.With(logger, "ts", log.DefaultTimestampUTC)
}

// buildCmds reflects over v to find its debug-subcommand methods: those
// taking a context.Context, a mainer.Stdio and a []string, and returning an
// error. This keeps the dispatch table driven by method signatures instead
// of a hand-maintained list, narrowed to the three inspection subcommands
// this tool exposes.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		name := strings.ToLower(m.Name)
		if !debugSubcommands[name] {
			continue
		}
		cmds[name] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
