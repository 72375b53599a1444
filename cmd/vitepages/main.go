package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/HardDie/vitepages/internal/bootstrap"
	"github.com/HardDie/vitepages/internal/logger"
	"github.com/HardDie/vitepages/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args, executes the selected command and returns the exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cli := CLI{Globals: Globals{ctx: ctx, stdin: stdin, stdout: stdout, stderr: stderr}}
	parser, err := kong.New(&cli,
		kong.Name("vitepages"),
		kong.Description("Scaffold a Vite project and publish it on GitHub Pages."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Bind(&cli.Globals),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "vitepages: %v\n", err)
		return 2
	}
	return exitCode(stderr, kctx.Run())
}

func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	red := color.New(color.FgRed)

	var se *pipeline.StepError
	switch {
	case errors.As(err, &se):
		logger.Error("provisioning failed", logger.Step(se.Step), logger.Err(se.Err))
		red.Fprintf(w, "vitepages: %s: %v\n", se.Summary(), se.Err)
		return pipeline.ExitCode(err)
	case errors.Is(err, bootstrap.ErrAborted):
		fmt.Fprintln(w, "vitepages: aborted")
		return 1
	}
	red.Fprintf(w, "vitepages: %v\n", err)
	return pipeline.ExitCode(err)
}
