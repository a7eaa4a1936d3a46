package appshell

import (
	"io"
	"os"
)

// Main runs the command with the process arguments and exits with its code.
// No arguments prints help.
func Main(run func([]string, io.Writer, io.Writer) int) {
	argv := os.Args[1:]
	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	os.Exit(run(argv, os.Stdout, os.Stderr))
}
