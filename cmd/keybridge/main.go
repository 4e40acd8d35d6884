package main

import (
	"io"
	"os"

	"github.com/zx06/keybridge/internal/app"
	"github.com/zx06/keybridge/internal/errors"
	"github.com/zx06/keybridge/internal/output"
)

func main() {
	exit := run()
	os.Exit(exit)
}

// run is the main entry point
func run() int {
	return runWith(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// runWith executes the CLI against the given args and streams
func runWith(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	GlobalConfig = &Config{}

	a := app.New(version, commit, date)
	w := output.New(stdout, stderr)

	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(NewSetCommand(&w))
	root.AddCommand(NewGetCommand(&w))
	root.AddCommand(NewDeleteCommand(&w))
	root.AddCommand(NewProbeCommand(&w))
	root.AddCommand(NewServeCommand(&w))
	root.AddCommand(NewMCPCommand(&w))
	root.AddCommand(NewSpecCommand(&a, &w))
	root.AddCommand(NewVersionCommand(&a, &w))

	if err := root.Execute(); err != nil {
		xe := normalizeErr(err)
		format := resolveFormatForError(GlobalConfig.FormatStr)
		_ = w.WriteError(format, xe)
		return int(errors.ExitCodeFor(xe.Code))
	}

	return int(errors.ExitOK)
}
