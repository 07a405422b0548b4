// Package maincmd implements the gen command-line tool: compile and run a
// single GEN source file.
package maincmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/gen/lang/compiler"
	"github.com/mna/gen/lang/machine"
)

const binName = "gen"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <path>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <path>
       %[1]s -h|--help
       %[1]s -v|--version

Compiles and runs a GEN source file.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// Exit codes specific to the gen CLI. mainer's own Success/Failure codes
// don't distinguish a usage error or unreadable input from a program
// failure, so this tool defines its own set instead of overloading them.
const (
	exitSuccess      mainer.ExitCode = 0
	exitProgramError mainer.ExitCode = 1
	exitUsage        mainer.ExitCode = 64
	exitNoInput      mainer.ExitCode = 74
)

// Cmd is the gen CLI's flag and argument target, populated by mainer.Parser.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args []string
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) != 1 {
		return errors.New("exactly one source file path must be provided")
	}
	return nil
}

// Main is the CLI entry point: parse flags, then compile and run the given
// source file, reporting compile or runtime errors on stderr.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return exitUsage
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return exitSuccess
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return exitSuccess
	}

	return c.run(c.args[0], stdio)
}

func (c *Cmd) run(path string, stdio mainer.Stdio) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return exitNoInput
	}

	prog, err := compiler.Compile(string(src))
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return exitProgramError
	}

	if err := machine.New(prog).Run(stdio.Stdout); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return exitProgramError
	}
	return exitSuccess
}
