// Command gradfit fits a linear regression with the gradgraph autodiff
// engine.
//
// Usage:
//
//	gradfit [options] [CONFIG]
//	gradfit version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/born-ml/gradgraph/internal/config"
)

const version = "v0.1.0-dev"

// ExitError carries a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args, loads the configuration and trains. Results go to outW,
// logs to logW.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	if len(args) > 0 && args[0] == "version" {
		fmt.Fprintf(outW, "gradfit %s\n", version)
		return nil
	}

	flagSet := flag.NewFlagSet("gradfit", flag.ContinueOnError)
	flagSet.SetOutput(outW)
	flagSet.Usage = func() {
		fmt.Fprint(outW, `
gradfit - fit a linear model with reverse-mode autodiff.

Usage:
  gradfit [options] [CONFIG]

Arguments:
  CONFIG
    Path to an HCL training configuration. Defaults are used when omitted.

Options:
`)
		flagSet.PrintDefaults()
	}
	logLevel := flagSet.String("log-level", "", "Override the log level: 'debug', 'info', 'warn', 'error'.")
	logFormat := flagSet.String("log-format", "", "Override the log format: 'text' or 'json'.")
	steps := flagSet.Int("steps", 0, "Override the number of training steps.")
	dot := flagSet.String("dot", "", "Write the final loss graph as Graphviz DOT to this path.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &ExitError{Code: 2, Message: err.Error()}
	}

	cfg := config.Default()
	if flagSet.NArg() > 0 {
		loaded, err := config.Load(flagSet.Arg(0))
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *logLevel != "" {
		cfg.Log.Level = strings.ToLower(*logLevel)
	}
	if *logFormat != "" {
		cfg.Log.Format = strings.ToLower(*logFormat)
	}
	if *steps > 0 {
		cfg.Training.Steps = *steps
	}
	if *dot != "" {
		cfg.Export.DOT = *dot
	}
	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.Format, logW)
	slog.SetDefault(logger)

	res, err := fit(ctx, cfg, logger)
	if err != nil {
		return err
	}
	res.print(outW)
	return nil
}
