// Package main is the entry point for cachebridge.
package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/cachebridge/cmd/cachebridge/commands"
	"go.trai.ch/cachebridge/internal/app"
	_ "go.trai.ch/cachebridge/internal/wiring"
	"go.trai.ch/zerr"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

// logSettings is implemented by loggers whose verbosity and format can change at runtime.
type logSettings interface {
	SetVerbose(enable bool)
	SetJSON(enable bool)
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	// 2. Expand params files
	args, err = expandArgs(args)
	if err != nil {
		components.Logger.Error(err)
		return 1
	}

	// 3. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)
	if ls, ok := components.Logger.(logSettings); ok {
		cli.SetLogHook(func(verbose, json bool) {
			ls.SetVerbose(verbose)
			ls.SetJSON(json)
		})
	}

	// 4. Execution
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}

// expandArgs replaces every argument of the form @path with the lines of the file at
// path, one argument per line. An argument starting with @@ stands for a literal @.
func expandArgs(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "@@"):
			out = append(out, arg[1:])
		case strings.HasPrefix(arg, "@") && len(arg) > 1:
			lines, err := readParamsFile(arg[1:])
			if err != nil {
				return nil, err
			}
			out = append(out, lines...)
		default:
			out = append(out, arg)
		}
	}
	return out, nil
}

func readParamsFile(path string) ([]string, error) {
	//nolint:gosec // Params files are written by the orchestrator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "read params file"), "path", path)
	}

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		if line := strings.TrimRight(sc.Text(), "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
