package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var cli CLI
	exited := false
	parser, err := kong.New(&cli,
		kong.Name("automation"),
		kong.Description("Author, check and preview automation definitions."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) { exited = true }),
	)
	if err != nil {
		return err
	}

	// Help keeps parsing after kong.Exit, so a missing command or argument
	// error may follow it.
	ctx, err := parser.Parse(args)
	if exited {
		return nil
	}
	if err != nil {
		return err
	}

	env, err := newEnv(cli.Globals, stdout, stderr)
	if err != nil {
		return err
	}
	return ctx.Run(env)
}
