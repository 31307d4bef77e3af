// Package commands implements the CLI commands for cachebridge.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.trai.ch/cachebridge/internal/app"
	"go.trai.ch/cachebridge/internal/build"
	"go.trai.ch/cachebridge/internal/core/domain"
)

// Application represents the application logic interface.
type Application interface {
	Check(ctx context.Context, inv app.Invocation) (*app.CheckReport, error)
	Inspect(ctx context.Context, inv app.Invocation, artifactPath string) (*domain.LabelResult, error)
	MapPath(inv app.Invocation, mode, path string) (string, error)
}

// CLI represents the command line interface for cachebridge.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	logHook func(verbose, json bool)
	cancel  context.CancelFunc
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "cachebridge",
		Short:         "Bridge build engine caches across sandboxed build actions",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.String("output-base", "", "Output base of the build (defaults to the exec root)")
	flags.String("exec-root", "", "Exec root of the current action (defaults to the working directory)")
	flags.Bool("verbose", false, "Enable debug logging")
	flags.Bool("json-logs", false, "Write logs as JSON")
	flags.Duration("timeout", 0, "Abort the command after this duration (0 disables the limit)")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRunE = c.preRun

	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newInspectCmd())
	rootCmd.AddCommand(c.newPathCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	defer func() {
		if c.cancel != nil {
			c.cancel()
		}
	}()
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetLogHook registers fn to receive the logging flags before a command runs.
func (c *CLI) SetLogHook(fn func(verbose, json bool)) {
	c.logHook = fn
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) preRun(cmd *cobra.Command, _ []string) error {
	if c.logHook != nil {
		verbose, _ := cmd.Flags().GetBool("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		c.logHook(verbose, jsonLogs)
	}

	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	if timeout > 0 {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		c.cancel = cancel
		cmd.SetContext(ctx)
	}
	return nil
}

// invocation reads the root flags shared by every command.
func invocation(cmd *cobra.Command) (app.Invocation, error) {
	execRoot, _ := cmd.Flags().GetString("exec-root")
	if execRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return app.Invocation{}, err
		}
		execRoot = wd
	}
	execRoot, err := filepath.Abs(execRoot)
	if err != nil {
		return app.Invocation{}, err
	}

	outputBase, _ := cmd.Flags().GetString("output-base")
	if outputBase == "" {
		outputBase = execRoot
	}
	outputBase, err = filepath.Abs(outputBase)
	if err != nil {
		return app.Invocation{}, err
	}

	return app.Invocation{OutputBase: outputBase, ExecRoot: execRoot}, nil
}
