// Package maincmd implements the fennec command line: it reads a source
// file, compiles it and executes it on the virtual machine.
package maincmd

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/mna/mainer"

	"github.com/fennec-lang/fennec/lang/ast"
	"github.com/fennec-lang/fennec/lang/compiler"
	"github.com/fennec-lang/fennec/lang/machine"
	"github.com/fennec-lang/fennec/lang/parser"
	"github.com/fennec-lang/fennec/lang/scanner"
)

const binName = "fennec"

// Exit codes of the command: 0 on normal termination, 8 when compilation
// fails (scan, parse or compile diagnostics), 101 when the program stops
// with a runtime error.
const (
	ExitCompileError = mainer.ExitCode(8)
	ExitRuntimeError = mainer.ExitCode(101)
)

var (
	shortUsage = fmt.Sprintf(`
usage: %s -i|--input <path>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s -i|--input <path>
       %[1]s -h|--help
       %[1]s -v|--version

Compile and run a %[1]s script.

Valid flag options are:
       -i --input <path>         Source file to compile and run.
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

The following environment variables enable extra diagnostics on standard
error, without changing the behavior of the program:
       %[2]s_DISASM=1            Print the compiled bytecode listing.
       %[2]s_PRINT_AST=1         Print the parsed syntax tree.

Exit codes: 0 on success, %[3]d on compile error, %[4]d on runtime error.
`, binName, "FENNEC", int(ExitCompileError), int(ExitRuntimeError))
)

// Cmd is the fennec command. Flags are parsed from the command line by
// mainer, diagnostics toggles from the environment.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool   `flag:"h,help"`
	Version bool   `flag:"v,version"`
	Input   string `flag:"i,input"`

	Disasm   bool `env:"FENNEC_DISASM"`
	PrintAST bool `env:"FENNEC_PRINT_AST"`
}

// Validate is called by the flag parser after the flags are set.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if c.Input == "" {
		return errors.New("no input file specified")
	}
	return nil
}

// Main runs the command and returns its exit code. The args slice includes
// the binary name at index 0.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false}
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

	if err := env.Parse(c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid environment: %s\n", err)
		return mainer.Failure
	}
	return c.runFile(stdio)
}

func (c *Cmd) runFile(stdio mainer.Stdio) mainer.ExitCode {
	prog, err := parser.ParseFile(c.Input)
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
		return ExitCompileError
	}
	if c.PrintAST {
		if err := ast.Fprint(stdio.Stderr, prog); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
		}
	}

	fn, err := compiler.Compile(c.Input, prog)
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
		return ExitCompileError
	}
	if c.Disasm {
		fmt.Fprint(stdio.Stderr, compiler.Dasm(fn))
	}

	m := machine.New()
	m.Stdout = stdio.Stdout
	if err := m.RunProgram(fn); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return ExitRuntimeError
	}
	return mainer.Success
}
