package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arnodel/jsonsample/internal/config"
)

// errFailed is returned by commands that already reported why they failed.
var errFailed = errors.New("failed")

// app is the state shared by all subcommands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	out        outputOptions

	cfg    *config.Config
	logger *slog.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, syscall.EPIPE):
		// stdout is a pipe and something closed it (e.g. 'head' or 'less').
		// In this case we don't want to complain.
		return 0
	case errors.Is(err, errFailed):
		return 1
	default:
		fmt.Fprintf(stderr, "error: %s\n", err)
		return 1
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jsample",
		Short: "Sample the leading objects of huge JSON documents",
		Long: `jsample reads the beginning of a node-link JSON document
({"nodes":[...],"links":[...]}) and stops as soon as it has what it needs,
so multi-gigabyte files are sampled in milliseconds.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
	a.out.addFlags(flags)

	root.AddCommand(a.extractCmd(), a.sampleCmd(), a.verifyCmd())
	return root
}

// setup loads the configuration and the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	return a.out.validate()
}

// openInput returns the named file, or stdin for "-" and no name.
func (a *app) openInput(args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(a.stdin), "<stdin>", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", err
	}
	return f, args[0], nil
}
